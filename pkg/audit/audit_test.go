package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(ApprovalEvent{
		AdminID:  "admin-1",
		UserID:   "user-1",
		ClientIP: "192.168.1.1",
		Action:   "approve",
		Success:  true,
	})

	output := buf.String()
	if !strings.HasPrefix(output, "<85>1 ") {
		t.Errorf("expected PRI 85 (authpriv.notice), got %q", output)
	}
	for _, want := range []string{"marnix13", "approval", "admin-1 approved account user-1", `ip="192.168.1.1"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output %q", want, output)
		}
	}
}

func TestFormatStructuredDataIsSorted(t *testing.T) {
	got := formatStructuredData(map[string]map[string]string{
		SDIDSubject: {"service": "jellyfin"},
		SDIDAction:  {"result": "success", "operation": "create"},
	})
	want := `[action@32473 operation="create" result="success"][subject@32473 service="jellyfin"]`
	if got != want {
		t.Errorf("formatStructuredData() = %q, want %q", got, want)
	}
}

func TestEscapeSDValue(t *testing.T) {
	got := escapeSDValue(`a "quoted" [value]\`)
	want := `"a \"quoted\" [value\]\\"`
	if got != want {
		t.Errorf("escapeSDValue() = %q, want %q", got, want)
	}
}

func TestApprovalEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   ApprovalEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "approve",
			event:   ApprovalEvent{AdminID: "a", UserID: "u", Action: "approve", Success: true},
			wantMsg: "a approved account u",
			wantSev: SeverityNotice,
		},
		{
			name:    "reject with reason",
			event:   ApprovalEvent{AdminID: "a", UserID: "u", Action: "reject", Reason: "spam", Success: true},
			wantMsg: "a rejected account u (reason: spam)",
			wantSev: SeverityNotice,
		},
		{
			name:    "failed approve",
			event:   ApprovalEvent{AdminID: "a", UserID: "u", Action: "approve", ErrorMessage: "invalid transition"},
			wantMsg: "a tried to approve account u: invalid transition",
			wantSev: SeverityWarning,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.event.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", got, tt.wantSev)
			}
			if tt.event.MessageID() != "approval" {
				t.Errorf("MessageID() = %q", tt.event.MessageID())
			}
		})
	}

	sd := ApprovalEvent{AdminID: "a", UserID: "u", Action: "reject", Reason: "spam"}.StructuredData()
	if sd[SDIDSubject]["reason"] != "spam" {
		t.Errorf("expected reason in structured data, got %v", sd)
	}
	if sd[SDIDAction]["result"] != "failure" {
		t.Errorf("expected failure result, got %v", sd[SDIDAction])
	}
	if _, ok := sd[SDIDClient]; ok {
		t.Error("client block should be omitted without an IP")
	}
}

func TestServiceChangeEvent(t *testing.T) {
	e := ServiceChangeEvent{UserID: "a", ServiceKey: "radarr", Operation: "delete", Success: true}
	if got := e.Message(); got != "a deleted service radarr" {
		t.Errorf("Message() = %q", got)
	}
	e.Operation = "update"
	if got := e.Message(); got != "a updated service radarr" {
		t.Errorf("Message() = %q", got)
	}
}

func TestAccessDeniedEvent(t *testing.T) {
	e := AccessDeniedEvent{UserID: "u", ClientIP: "10.0.0.1", Path: "/api/admin/users/pending", Reason: "not an admin"}
	if got := e.Message(); got != "u was denied access to /api/admin/users/pending: not an admin" {
		t.Errorf("Message() = %q", got)
	}
	if e.Facility() != FacilityAuth {
		t.Errorf("Facility() = %d", e.Facility())
	}
}

func TestLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	DefaultLogger.SetWriter(&buf)
	SetEnabled(false)
	defer SetEnabled(true)

	Log(RoleChangeEvent{ActorID: "cli", AccountID: "u", AccountType: "admin"})
	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}
}
