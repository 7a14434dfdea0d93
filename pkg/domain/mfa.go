package domain

// MFAChallenge is one outstanding challenge question the server poses
// during sign-on. PhraseLabel may be empty for the phrase IDs that OFX
// clients render with built-in prompts (e.g. MFA107, MFA16).
type MFAChallenge struct {
	PhraseID     string `json:"phrase_id" yaml:"id"`
	PhraseLabel  string `json:"phrase_label,omitempty" yaml:"label,omitempty"`
	PhraseAnswer string `json:"phrase_answer" yaml:"answer"`
}

// StandardChallenges returns the canned challenge set used when MFA is
// enabled without custom fixtures: two labeled questions and two
// phrase IDs whose prompts are built into the client.
func StandardChallenges() []MFAChallenge {
	return []MFAChallenge{
		{PhraseID: "MFA13", PhraseLabel: "Please enter the last four digits of your social security number", PhraseAnswer: "1234"},
		{PhraseID: "MFA107", PhraseAnswer: "QWIN 1700"},
		{PhraseID: "123", PhraseLabel: "With which branch is your account associated?", PhraseAnswer: "Newcastle"},
		{PhraseID: "MFA16", PhraseAnswer: "HigginBothum"},
	}
}
