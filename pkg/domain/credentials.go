package domain

// Credentials is the credential set the simulated institution expects
// at sign-on. The labels double as switches: a non-empty label means
// the corresponding field is required and validated. Mutable for the
// life of the server process; never persisted.
type Credentials struct {
	UserName       string `json:"user_name"`
	Password       string `json:"password"`
	UserCred1Label string `json:"user_cred1_label,omitempty"`
	UserCred1      string `json:"user_cred1,omitempty"`
	UserCred2Label string `json:"user_cred2_label,omitempty"`
	UserCred2      string `json:"user_cred2,omitempty"`
}
