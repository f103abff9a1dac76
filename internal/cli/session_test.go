package cli

import (
	"testing"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/internal/core"
	"github.com/praxiskit/praxis/internal/storage"
)

// wireSessionServices points the package vars at real services over a temp
// dir and restores the originals on cleanup.
func wireSessionServices(t *testing.T) {
	t.Helper()

	origTracker := Tracker
	origStore := SessionStore
	origProject := sessionProject
	origFramework := sessionFramework
	t.Cleanup(func() {
		Tracker = origTracker
		SessionStore = origStore
		sessionProject = origProject
		sessionFramework = origFramework
	})

	store := storage.NewSessionStore(t.TempDir())
	SessionStore = store
	Tracker = core.NewContinuityTracker(store, catalog.NewCatalog(), nil)
}

func TestSessionStartAndListCmds(t *testing.T) {
	wireSessionServices(t)

	sessionProject = "proj-1"
	sessionFramework = "design-thinking"

	if err := sessionStartCmd.RunE(sessionStartCmd, []string{}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	sessions, err := SessionStore.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}

	if err := sessionListCmd.RunE(sessionListCmd, []string{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestSessionShowCmd_UnknownSession(t *testing.T) {
	wireSessionServices(t)

	if err := sessionShowCmd.RunE(sessionShowCmd, []string{"S-99999"}); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestSessionStatusCmds(t *testing.T) {
	wireSessionServices(t)

	sessionProject = "proj-1"
	sessionFramework = "design-thinking"
	if err := sessionStartCmd.RunE(sessionStartCmd, []string{}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	pause := statusCommand("pause", "Pause", "paused")
	if err := pause.RunE(pause, []string{"S-00001"}); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	if err := sessionResumeCmd.RunE(sessionResumeCmd, []string{"S-00001"}); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	session, err := Tracker.GetSession("S-00001")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if string(session.Status) != "active" {
		t.Errorf("expected active after resume, got %s", session.Status)
	}
}

func TestSessionAnalyticsCmd(t *testing.T) {
	wireSessionServices(t)

	sessionProject = "proj-1"
	sessionFramework = "design-thinking"
	if err := sessionStartCmd.RunE(sessionStartCmd, []string{}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := sessionAnalyticsCmd.RunE(sessionAnalyticsCmd, []string{"S-00001"}); err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
}
