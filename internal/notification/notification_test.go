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

package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/jerry-enebeli/caixa/config"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifier(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var body map[string]interface{}
	httpmock.RegisterResponder("POST", "https://hooks.slack.test/T1",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(200, "ok"), nil
		})

	n := SlackNotifier{
		WebhookURL: "https://hooks.slack.test/T1",
		Project:    "Caixa",
		Now:        func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) },
	}
	err := n.Notify(context.Background(), Event{
		Kind:    KindImportFinished,
		Message: "import done",
		Fields:  map[string]interface{}{"rows": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())

	blocks := body["blocks"].([]interface{})
	header := blocks[0].(map[string]interface{})["text"].(map[string]interface{})
	assert.Equal(t, "Caixa: import.finished", header["text"])
	fields := blocks[1].(map[string]interface{})["fields"].([]interface{})
	assert.Len(t, fields, 3)
	assert.Contains(t, fields[2].(map[string]interface{})["text"], "rows: 3")
}

func TestSlackNotifierRequiresURL(t *testing.T) {
	assert.Error(t, SlackNotifier{}.Notify(context.Background(), Event{Kind: "x"}))
}

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := LogNotifier{Logger: logger}

	require.NoError(t, n.Notify(context.Background(), Event{Kind: KindDeduplicated, Message: "merged"}))
	require.NoError(t, n.Notify(context.Background(), Event{Kind: KindStorageFailure, Message: "save failed", Err: errors.New("disk full")}))

	require.Len(t, hook.Entries, 2)
	assert.Equal(t, logrus.InfoLevel, hook.Entries[0].Level)
	assert.Equal(t, KindDeduplicated, hook.Entries[0].Data["event"])
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[1].Level)
}

type failing struct{}

func (failing) Notify(context.Context, Event) error { return errors.New("down") }

func TestMultiJoinsErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	err := Multi{LogNotifier{Logger: logger}, failing{}}.Notify(context.Background(), Event{Kind: "x"})
	assert.EqualError(t, err, "down")
}

func TestFromConfig(t *testing.T) {
	n := FromConfig(&config.Configuration{})
	assert.Len(t, n.(Multi), 1)

	cnf := &config.Configuration{ProjectName: "p"}
	cnf.Notification.Slack.WebhookUrl = "https://hooks.slack.test/T1"
	assert.Len(t, FromConfig(cnf).(Multi), 2)
}
