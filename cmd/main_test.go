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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.elastic.co/apm/module/apmlogrus/v2"

	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/model"
)

func writeConfig(t *testing.T, cnf config.Configuration) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caixa.json")
	data, err := json.Marshal(cnf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := NewCLI()
	out := &bytes.Buffer{}
	cli.cmd.SetOut(out)
	cli.cmd.SetArgs(args)
	err := cli.cmd.Execute()
	return out.String(), err
}

func TestImportCommand(t *testing.T) {
	cnfPath := writeConfig(t, config.Configuration{DataSource: config.DataSourceConfig{Driver: config.DriverMemory}})
	file := filepath.Join(t.TempDir(), "fornecedores.csv")
	require.NoError(t, os.WriteFile(file, []byte("nome;cnpj\nEnergisa;07.047.251/0001-70\nEnergisa S.A.;07047251000170\n"), 0o600))

	out, err := run(t, "--config", cnfPath, "import", "suppliers", file)
	require.NoError(t, err)

	var summary model.ImportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 1, summary.SuppliersCreated)
	assert.Equal(t, 1, summary.SuppliersSkipped)
}

func TestImportCommandRejectsUnknownKind(t *testing.T) {
	cnfPath := writeConfig(t, config.Configuration{DataSource: config.DataSourceConfig{Driver: config.DriverMemory}})
	file := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(file, []byte("a\n1\n"), 0o600))

	_, err := run(t, "--config", cnfPath, "import", "invoices", file)
	assert.Error(t, err)
}

func TestConfigCommandMasksSecret(t *testing.T) {
	cnfPath := writeConfig(t, config.Configuration{
		DataSource: config.DataSourceConfig{Driver: config.DriverMemory},
		Server:     config.ServerConfig{SecretKey: "s3cret"},
	})

	out, err := run(t, "--config", cnfPath, "config")
	require.NoError(t, err)
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "********")
}

func TestMigrateRejectsMemoryDriver(t *testing.T) {
	cnfPath := writeConfig(t, config.Configuration{DataSource: config.DataSourceConfig{Driver: config.DriverMemory}})
	_, err := run(t, "--config", cnfPath, "migrate", "up")
	assert.Error(t, err)
}

func TestRefreshStatusesCommand(t *testing.T) {
	cnfPath := writeConfig(t, config.Configuration{DataSource: config.DataSourceConfig{Driver: config.DriverMemory}})
	out, err := run(t, "--config", cnfPath, "refresh-statuses")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 0 obligations")
}

func TestAPMHookFollowsTracing(t *testing.T) {
	logger := logrus.StandardLogger()
	saved := logger.ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() { logger.ReplaceHooks(saved) })

	addAPMHook(&config.Configuration{})
	assert.Empty(t, logger.Hooks[logrus.ErrorLevel])

	enabled := &config.Configuration{Tracing: config.TracingConfig{Enabled: true}}
	addAPMHook(enabled)
	addAPMHook(enabled)
	require.Len(t, logger.Hooks[logrus.ErrorLevel], 1)
	_, ok := logger.Hooks[logrus.ErrorLevel][0].(*apmlogrus.Hook)
	assert.True(t, ok)
	assert.Empty(t, logger.Hooks[logrus.InfoLevel])
}
