package audit

import "fmt"

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// ApprovalEvent records an admin approving or rejecting a sign-up
type ApprovalEvent struct {
	AdminID      string
	UserID       string
	ClientIP     string
	Action       string // "approve" or "reject"
	Reason       string
	Success      bool
	ErrorMessage string
}

func (e ApprovalEvent) MessageID() string {
	return "approval"
}

func (e ApprovalEvent) Message() string {
	verb := "approved"
	if e.Action == "reject" {
		verb = "rejected"
	}
	if e.Success {
		msg := fmt.Sprintf("%s %s account %s", e.AdminID, verb, e.UserID)
		if e.Reason != "" {
			msg += " (reason: " + e.Reason + ")"
		}
		return msg
	}
	return withError(fmt.Sprintf("%s tried to %s account %s", e.AdminID, e.Action, e.UserID), e.ErrorMessage)
}

func (e ApprovalEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e ApprovalEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ApprovalEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth:    {"user": e.AdminID},
		SDIDSubject: {"account": e.UserID},
		SDIDAction:  {"operation": e.Action, "result": result(e.Success)},
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	if e.Reason != "" {
		sd[SDIDSubject]["reason"] = e.Reason
	}
	return sd
}

// ServiceChangeEvent records an admin change to the services registry
type ServiceChangeEvent struct {
	UserID       string
	ClientIP     string
	ServiceKey   string
	Operation    string // "create", "update", "delete"
	Success      bool
	ErrorMessage string
}

func (e ServiceChangeEvent) MessageID() string {
	return "service"
}

func (e ServiceChangeEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd service %s", e.UserID, e.Operation, e.ServiceKey)
	}
	return withError(fmt.Sprintf("%s tried to %s service %s", e.UserID, e.Operation, e.ServiceKey), e.ErrorMessage)
}

func (e ServiceChangeEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ServiceChangeEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ServiceChangeEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"service": e.ServiceKey},
		SDIDAction:  {"operation": e.Operation, "result": result(e.Success)},
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

// RoleChangeEvent records a change of account_type
type RoleChangeEvent struct {
	ActorID     string
	AccountID   string
	AccountType string
}

func (e RoleChangeEvent) MessageID() string {
	return "role"
}

func (e RoleChangeEvent) Message() string {
	return fmt.Sprintf("%s set account type of %s to %s", e.ActorID, e.AccountID, e.AccountType)
}

func (e RoleChangeEvent) Severity() Severity {
	return SeverityNotice
}

func (e RoleChangeEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleChangeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.ActorID},
		SDIDSubject: {"account": e.AccountID, "account_type": e.AccountType},
		SDIDAction:  {"operation": "set-account-type", "result": "success"},
	}
}

// AccessDeniedEvent records a request refused by an access check
type AccessDeniedEvent struct {
	UserID   string
	ClientIP string
	Path     string
	Reason   string
}

func (e AccessDeniedEvent) MessageID() string {
	return "access"
}

func (e AccessDeniedEvent) Message() string {
	return withError(fmt.Sprintf("%s was denied access to %s", e.UserID, e.Path), e.Reason)
}

func (e AccessDeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e AccessDeniedEvent) Facility() int {
	return FacilityAuth
}

func (e AccessDeniedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"path": e.Path},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "access", "result": "failure"},
	}
}
