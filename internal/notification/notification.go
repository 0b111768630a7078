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
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/internal/request"
	"github.com/sirupsen/logrus"
)

// Event kinds emitted by the ledger.
const (
	KindImportFinished   = "import.finished"
	KindImportFailed     = "import.failed"
	KindDeduplicated     = "ledger.deduplicated"
	KindAutoReconciled   = "reconciliation.auto"
	KindStatusesRefresh  = "obligations.refreshed"
	KindStorageFailure   = "storage.failure"
	KindSettlementFailed = "settlement.failed"
	KindPaymentApplied   = "settlement.payment_applied"
	KindReceiptApplied   = "settlement.receipt_applied"
	KindReconciled       = "reconciliation.linked"
)

// Event is a notable outcome worth reporting outside the process.
type Event struct {
	Kind    string
	Message string
	Fields  map[string]interface{}
	Err     error
}

// Notifier delivers events. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to logrus.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Notify(_ context.Context, event Event) error {
	logger := n.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithField("event", event.Kind).WithFields(logrus.Fields(event.Fields))
	if event.Err != nil {
		entry.WithError(event.Err).Error(event.Message)
		return nil
	}
	entry.Info(event.Message)
	return nil
}

// SlackNotifier posts events to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	Project    string
	Now        func() time.Time
}

func (n SlackNotifier) Notify(ctx context.Context, event Event) error {
	if n.WebhookURL == "" {
		return errors.New("slack webhook url is empty")
	}
	_, err := request.PostJSON(ctx, n.WebhookURL, n.payload(event), nil)
	return err
}

func (n SlackNotifier) payload(event Event) map[string]interface{} {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	title := fmt.Sprintf("%s: %s", n.Project, event.Kind)
	if event.Err != nil {
		title += " 🐞"
	}

	fields := []interface{}{
		mrkdwn("*Message:*\n" + event.Message),
		mrkdwn("*Time:*\n" + now().Format(time.RFC822)),
	}
	if event.Err != nil {
		fields = append(fields, mrkdwn("*Error:*\n"+event.Err.Error()))
	}
	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %v\n", k, event.Fields[k])
		}
		fields = append(fields, mrkdwn("*Details:*\n"+b.String()))
	}

	return map[string]interface{}{
		"blocks": []interface{}{
			map[string]interface{}{
				"type": "header",
				"text": map[string]interface{}{"type": "plain_text", "text": title, "emoji": true},
			},
			map[string]interface{}{"type": "section", "fields": fields},
		},
	}
}

func mrkdwn(text string) map[string]interface{} {
	return map[string]interface{}{"type": "mrkdwn", "text": text}
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig always logs, and also posts to Slack when a webhook is configured.
func FromConfig(cnf *config.Configuration) Notifier {
	notifiers := Multi{LogNotifier{}}
	if cnf != nil && cnf.Notification.Slack.WebhookUrl != "" {
		notifiers = append(notifiers, SlackNotifier{WebhookURL: cnf.Notification.Slack.WebhookUrl, Project: cnf.ProjectName})
	}
	return notifiers
}

// NotifyAsync delivers event on its own goroutine and logs delivery failures.
func NotifyAsync(n Notifier, event Event) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := n.Notify(ctx, event); err != nil {
			logrus.WithError(err).WithField("event", event.Kind).Warn("notification delivery failed")
		}
	}()
}
