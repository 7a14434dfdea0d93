package domain

// StatusCode is a numeric OFX <STATUS><CODE> value. The set below
// covers the codes this server emits plus the neighboring signon and
// banking codes from the OFX 2.x specification so callers can match
// responses symbolically.
type StatusCode int

const (
	StatusOK             StatusCode = 0
	StatusClientUpToDate StatusCode = 1

	// General / banking errors.
	StatusGeneralError     StatusCode = 2000
	StatusInvalidAccount   StatusCode = 2001
	StatusAccountNotFound  StatusCode = 2003
	StatusAccountClosed    StatusCode = 2004
	StatusInvalidDate      StatusCode = 2020
	StatusDuplicateRequest StatusCode = 2019

	// MFA flow.
	StatusMFAChallengeRequired StatusCode = 3000 // credentials fine, send MFACHALLENGERQ next
	StatusMFAInvalid           StatusCode = 3001 // MFACHALLENGEA contained invalid information

	// Signon.
	StatusMustChangePassword     StatusCode = 15000
	StatusSignonInvalid          StatusCode = 15500
	StatusAccountInUse           StatusCode = 15501
	StatusPasswordLockout        StatusCode = 15502
	StatusCouldNotChangePassword StatusCode = 15503
	StatusClientUIDRejected      StatusCode = 15510
	StatusMFAContactInstitution  StatusCode = 15511
	StatusAuthTokenRequired      StatusCode = 15512
	StatusAuthTokenInvalid       StatusCode = 15513
)

// Severity is an OFX <STATUS><SEVERITY> value.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityError Severity = "ERROR"
)
