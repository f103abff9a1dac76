package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/praxiskit/praxis/internal/observability"
)

type alertEngineMock struct {
	alerts []observability.Alert
	err    error
}

func (m *alertEngineMock) Evaluate() ([]observability.Alert, error) {
	return m.alerts, m.err
}

type notifierMock struct {
	notified [][]observability.Alert
}

func (m *notifierMock) Notify(alerts []observability.Alert) error {
	m.notified = append(m.notified, alerts)
	return nil
}

func TestAlertsCmd_NilEngine(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()
	AlertEngine = nil

	err := alertsCmd.RunE(alertsCmd, []string{})
	if err == nil {
		t.Fatal("expected error when AlertEngine is nil")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAlertsCmd_NoAlerts(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()
	AlertEngine = &alertEngineMock{}

	if err := alertsCmd.RunE(alertsCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAlertsCmd_NotifySendsAlerts(t *testing.T) {
	origEngine := AlertEngine
	origNotifier := Notifier
	origNotify := alertsNotify
	defer func() {
		AlertEngine = origEngine
		Notifier = origNotifier
		alertsNotify = origNotify
	}()

	AlertEngine = &alertEngineMock{
		alerts: []observability.Alert{
			{ID: "a1", Condition: "stale_session", Severity: observability.SeverityMedium,
				Message: "session S-00001 idle", TriggeredAt: time.Now().UTC()},
		},
	}
	notifier := &notifierMock{}
	Notifier = notifier
	alertsNotify = true

	if err := alertsCmd.RunE(alertsCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected 1 notification batch, got %d", len(notifier.notified))
	}
}

func TestAlertsCmd_NotifyWithoutNotifier(t *testing.T) {
	origEngine := AlertEngine
	origNotifier := Notifier
	origNotify := alertsNotify
	defer func() {
		AlertEngine = origEngine
		Notifier = origNotifier
		alertsNotify = origNotify
	}()

	AlertEngine = &alertEngineMock{
		alerts: []observability.Alert{
			{ID: "a1", Condition: "stale_session", Severity: observability.SeverityLow,
				Message: "idle", TriggeredAt: time.Now().UTC()},
		},
	}
	Notifier = nil
	alertsNotify = true

	err := alertsCmd.RunE(alertsCmd, []string{})
	if err == nil {
		t.Fatal("expected error when no notifier is configured")
	}
}
