// Package server implements the protocol core of the OFX test bank:
// the sign-on state machine, the change-password, sign-up, profile and
// bank-statement handlers, and the dispatcher that routes OFX message
// sets to them.
package server

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/finsim/ofxserve/internal/ofx"
	"github.com/finsim/ofxserve/pkg/domain"
)

// Fixed identity of the simulated institution.
const (
	fiOrg = "bankofhope"
	fiFID = 7777
)

// Config holds the initial state of the simulated institution.
type Config struct {
	Logger      *slog.Logger
	Credentials domain.Credentials

	// AuthTokenLabel non-empty makes AUTHTOKEN a sign-on requirement.
	AuthTokenLabel string
	AuthToken      string

	// Challenges non-empty enables the MFA flow.
	Challenges []domain.MFAChallenge

	// ChangePassword forces a password change on the next sign-on.
	ChangePassword bool

	// Payees overrides the built-in sample payee table.
	Payees []domain.SamplePayee

	// URL is the endpoint address advertised in profile responses.
	URL string

	// ResponseDelay is the artificial latency applied per request.
	ResponseDelay time.Duration

	// Now and Rand are injectable for deterministic tests. Defaults
	// are the wall clock and a time-seeded source.
	Now  func() time.Time
	Rand *rand.Rand
}

// Server holds all mutable session state: the credential set, the
// challenge collection, the pending-MFA flag and the current access
// key. Every request is processed under the same mutex that guards
// configuration changes, so requests are strictly serialized and the
// admin surface never races the protocol flow.
type Server struct {
	logger *slog.Logger

	mu             sync.Mutex
	creds          domain.Credentials
	authTokenLabel string
	authToken      string
	challenges     []domain.MFAChallenge
	changePassword bool
	pendingMFA     bool
	accessKey      string
	payees         []domain.SamplePayee
	url            string
	delay          time.Duration

	now func() time.Time
	rng *rand.Rand
}

// New creates a server with the given initial state.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	payees := cfg.Payees
	if len(payees) == 0 {
		payees = domain.DefaultPayees()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Server{
		logger:         logger,
		creds:          cfg.Credentials,
		authTokenLabel: cfg.AuthTokenLabel,
		authToken:      cfg.AuthToken,
		challenges:     append([]domain.MFAChallenge(nil), cfg.Challenges...),
		changePassword: cfg.ChangePassword,
		payees:         payees,
		url:            cfg.URL,
		delay:          cfg.ResponseDelay,
		now:            now,
		rng:            rng,
	}
}

// ProcessRequest dispatches one parsed OFX request document and builds
// the response document. The mutex is held for the whole call: one
// request at a time, in arrival order. An error means the request
// could not be dispatched at all (e.g. a signon wrapper without SONRQ)
// and maps to HTTP 400 at the transport.
func (s *Server) ProcessRequest(req *ofx.Element) (*ofx.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := ofx.New("OFX")

	// Profile requests are exempt from the challenge flow for the
	// whole document.
	challenge := true
	for _, e := range req.Children {
		if e.Name == "PROFMSGSRQV1" {
			challenge = false
		}
	}

	for _, e := range req.Children {
		switch e.Name {
		case "SIGNONMSGSRQV1":
			rs, err := s.processSignon(e, challenge)
			if err != nil {
				return nil, err
			}
			result.Add(rs)
		case "SIGNUPMSGSRQV1":
			result.Add(s.processSignup(e))
		case "PROFMSGSRQV1":
			result.Add(s.processProfile(e))
		case "BANKMSGSRQV1":
			result.Add(s.processBank(e))
		}
	}
	return result, nil
}

// ResponseDelay returns the configured artificial latency.
func (s *Server) ResponseDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// SetResponseDelay updates the artificial latency.
func (s *Server) SetResponseDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetCredentials replaces the credential set.
func (s *Server) SetCredentials(creds domain.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
}

// SetAuthToken configures the AUTHTOKEN requirement. Changing the
// token invalidates any previously issued access key; nothing else
// does, so a key stays valid for the life of the process otherwise.
func (s *Server) SetAuthToken(label, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authTokenLabel = label
	s.authToken = token
	s.accessKey = ""
}

// SetChallenges replaces the MFA challenge set. An empty set disables
// the MFA flow.
func (s *Server) SetChallenges(challenges []domain.MFAChallenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = append([]domain.MFAChallenge(nil), challenges...)
}

// AddStandardChallenges installs the built-in challenge set if no
// challenges are configured yet.
func (s *Server) AddStandardChallenges() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.challenges) == 0 {
		s.challenges = domain.StandardChallenges()
	}
}

// RemoveChallenges clears the challenge set, disabling MFA.
func (s *Server) RemoveChallenges() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = nil
}

// SetChangePassword toggles the forced password change mode.
func (s *Server) SetChangePassword(required bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changePassword = required
}

// State is a point-in-time snapshot of the server's configuration and
// session state, as reported on the admin surface.
type State struct {
	Credentials        domain.Credentials    `json:"credentials"`
	AuthTokenLabel     string                `json:"auth_token_label,omitempty"`
	Challenges         []domain.MFAChallenge `json:"challenges,omitempty"`
	ChangePassword     bool                  `json:"change_password"`
	PendingMFAResponse bool                  `json:"pending_mfa_response"`
	AccessKeyIssued    bool                  `json:"access_key_issued"`
	ResponseDelayMS    int64                 `json:"response_delay_ms"`
}

// Snapshot returns the current state.
func (s *Server) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Credentials:        s.creds,
		AuthTokenLabel:     s.authTokenLabel,
		Challenges:         append([]domain.MFAChallenge(nil), s.challenges...),
		ChangePassword:     s.changePassword,
		PendingMFAResponse: s.pendingMFA,
		AccessKeyIssued:    s.accessKey != "",
		ResponseDelayMS:    s.delay.Milliseconds(),
	}
}
