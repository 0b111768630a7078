/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// configCommands prints the computed configuration with the secret key
// masked. It does not open the data source.
func configCommands(app *caixaInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "config",
		Short:             "config outputs your instances computed configuration",
		PersistentPreRunE: loadConfig(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			cnf := *app.cnf
			if cnf.Server.SecretKey != "" {
				cnf.Server.SecretKey = "********"
			}

			data, err := json.MarshalIndent(cnf, "", "    ")
			if err != nil {
				return fmt.Errorf("error printing config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	return cmd
}
