package server

import (
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/finsim/ofxserve/internal/ofx"
	"github.com/finsim/ofxserve/pkg/domain"
)

var testClock = func() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func newTestServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = testClock
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	if cfg.Credentials.UserName == "" {
		cfg.Credentials = domain.Credentials{UserName: "alice", Password: "secret"}
	}
	return New(cfg)
}

// signonDoc builds an OFX document whose SONRQ holds the given fields.
// Extra elements (MFACHALLENGETRNRQ, PINCHTRNRQ) ride alongside SONRQ
// inside the SIGNONMSGSRQV1 wrapper.
func signonDoc(fields []*ofx.Element, extras ...*ofx.Element) *ofx.Element {
	wrapper := ofx.New("SIGNONMSGSRQV1", ofx.New("SONRQ", fields...))
	wrapper.Add(extras...)
	return ofx.New("OFX", wrapper)
}

func credentials(user, pass string) []*ofx.Element {
	return []*ofx.Element{
		ofx.Str("USERID", user),
		ofx.Str("USERPASS", pass),
	}
}

func mustProcess(t *testing.T, s *Server, doc *ofx.Element) *ofx.Element {
	t.Helper()
	resp, err := s.ProcessRequest(doc)
	if err != nil {
		t.Fatalf("ProcessRequest failed: %v", err)
	}
	return resp
}

func signonCode(t *testing.T, resp *ofx.Element) int {
	t.Helper()
	sonrs := resp.Find("SONRS")
	if sonrs == nil {
		t.Fatal("response has no SONRS")
	}
	status := sonrs.Child("STATUS")
	if status == nil {
		t.Fatal("SONRS has no STATUS")
	}
	codeStr, ok := status.ChildValue("CODE")
	if !ok {
		t.Fatal("STATUS has no CODE")
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		t.Fatalf("CODE %q is not numeric: %v", codeStr, err)
	}
	return code
}

func accessKey(resp *ofx.Element) (string, bool) {
	sonrs := resp.Find("SONRS")
	if sonrs == nil {
		return "", false
	}
	return sonrs.ChildValue("ACCESSKEY")
}

func TestSignon_CredentialGate(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		pass     string
		wantCode int
		wantMsg  string
	}{
		{"wrong user", "mallory", "secret", int(domain.StatusSignonInvalid), "Invalid user id"},
		{"wrong password", "alice", "hunter2", int(domain.StatusSignonInvalid), "Invalid password"},
		{"both wrong", "mallory", "hunter2", int(domain.StatusSignonInvalid), "Invalid user id"},
		{"empty fields", "", "", int(domain.StatusSignonInvalid), "Invalid user id"},
		{"valid", "alice", "secret", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Config{})
			resp := mustProcess(t, s, signonDoc(credentials(tt.user, tt.pass)))

			if code := signonCode(t, resp); code != tt.wantCode {
				t.Errorf("CODE = %d, want %d", code, tt.wantCode)
			}
			msg, _ := resp.Find("STATUS").ChildValue("MESSAGE")
			if msg != tt.wantMsg {
				t.Errorf("MESSAGE = %q, want %q", msg, tt.wantMsg)
			}
			if _, ok := accessKey(resp); ok {
				t.Error("failed sign-on must not carry an ACCESSKEY")
			}
		})
	}
}

func TestSignon_SuccessResponseShape(t *testing.T) {
	s := newTestServer(Config{})
	resp := mustProcess(t, s, signonDoc(credentials("alice", "secret")))

	sonrs := resp.Find("SONRS")
	if sonrs == nil {
		t.Fatal("no SONRS in response")
	}
	if dt, _ := sonrs.ChildValue("DTSERVER"); dt != "20240501120000" {
		t.Errorf("DTSERVER = %q, want %q", dt, "20240501120000")
	}
	if lang, _ := sonrs.ChildValue("LANGUAGE"); lang != "ENG" {
		t.Errorf("LANGUAGE = %q, want %q", lang, "ENG")
	}
	fi := sonrs.Child("FI")
	if fi == nil {
		t.Fatal("no FI in SONRS")
	}
	if org, _ := fi.ChildValue("ORG"); org != "bankofhope" {
		t.Errorf("FI/ORG = %q, want %q", org, "bankofhope")
	}
	if fid, _ := fi.ChildValue("FID"); fid != "7777" {
		t.Errorf("FI/FID = %q, want %q", fid, "7777")
	}
}

func TestSignon_UserCred1Gate(t *testing.T) {
	cfg := Config{Credentials: domain.Credentials{
		UserName: "alice", Password: "secret",
		UserCred1Label: "Branch code", UserCred1: "042",
	}}

	// Missing USERCRED1
	s := newTestServer(cfg)
	resp := mustProcess(t, s, signonDoc(credentials("alice", "secret")))
	if code := signonCode(t, resp); code != int(domain.StatusSignonInvalid) {
		t.Errorf("missing USERCRED1: CODE = %d, want %d", code, domain.StatusSignonInvalid)
	}

	// Wrong USERCRED1
	s = newTestServer(cfg)
	fields := append(credentials("alice", "secret"), ofx.Str("USERCRED1", "999"))
	resp = mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != int(domain.StatusSignonInvalid) {
		t.Errorf("wrong USERCRED1: CODE = %d, want %d", code, domain.StatusSignonInvalid)
	}

	// Correct USERCRED1
	s = newTestServer(cfg)
	fields = append(credentials("alice", "secret"), ofx.Str("USERCRED1", "042"))
	resp = mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != 0 {
		t.Errorf("correct USERCRED1: CODE = %d, want 0", code)
	}
}

func TestSignon_MFARoundTrip(t *testing.T) {
	s := newTestServer(Config{Challenges: domain.StandardChallenges()})

	// 1. Plain sign-on: server demands a challenge request.
	resp := mustProcess(t, s, signonDoc(credentials("alice", "secret")))
	if code := signonCode(t, resp); code != int(domain.StatusMFAChallengeRequired) {
		t.Fatalf("CODE = %d, want %d", code, domain.StatusMFAChallengeRequired)
	}

	// 2. Challenge request: server lists every configured challenge
	// and starts expecting answers.
	resp = mustProcess(t, s, signonDoc(credentials("alice", "secret"), ofx.New("MFACHALLENGETRNRQ")))
	trnrs := resp.Find("MFACHALLENGETRNRS")
	if trnrs == nil {
		t.Fatal("no MFACHALLENGETRNRS in challenge response")
	}
	challengers := trnrs.Child("MFACHALLENGERS")
	if challengers == nil {
		t.Fatal("no MFACHALLENGERS in challenge response")
	}
	want := domain.StandardChallenges()
	got := challengers.ChildrenNamed("MFACHALLENGE")
	if len(got) != len(want) {
		t.Fatalf("challenge count = %d, want %d", len(got), len(want))
	}
	for i, c := range got {
		id, _ := c.ChildValue("MFAPHRASEID")
		if id != want[i].PhraseID {
			t.Errorf("challenge %d id = %q, want %q", i, id, want[i].PhraseID)
		}
		label, hasLabel := c.ChildValue("MFAPHRASELABEL")
		if want[i].PhraseLabel == "" && hasLabel {
			t.Errorf("challenge %d should have no label, got %q", i, label)
		}
		if want[i].PhraseLabel != "" && label != want[i].PhraseLabel {
			t.Errorf("challenge %d label = %q, want %q", i, label, want[i].PhraseLabel)
		}
	}
	if !s.Snapshot().PendingMFAResponse {
		t.Error("server should be expecting challenge answers")
	}

	// 3. Correct answers to every challenge: fresh access key.
	fields := credentials("alice", "secret")
	for _, c := range want {
		fields = append(fields, ofx.New("MFACHALLENGEANSWER",
			ofx.Str("MFAPRHASEID", c.PhraseID),
			ofx.Str("MFAPHRASEA", c.PhraseAnswer),
		))
	}
	resp = mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != 0 {
		t.Fatalf("CODE = %d, want 0", code)
	}
	key, ok := accessKey(resp)
	if !ok || key == "" {
		t.Fatal("successful MFA verification must mint an ACCESSKEY")
	}
	if s.Snapshot().PendingMFAResponse {
		t.Error("pending flag should clear after verification")
	}
}

func TestSignon_MFAAnswersIncomplete(t *testing.T) {
	challenges := domain.StandardChallenges()
	s := newTestServer(Config{Challenges: challenges})

	// Enter the pending state.
	mustProcess(t, s, signonDoc(credentials("alice", "secret"), ofx.New("MFACHALLENGETRNRQ")))

	// Answer only the first challenge: all-of semantics reject it.
	fields := append(credentials("alice", "secret"),
		ofx.New("MFACHALLENGEANSWER",
			ofx.Str("MFAPRHASEID", challenges[0].PhraseID),
			ofx.Str("MFAPHRASEA", challenges[0].PhraseAnswer),
		))
	resp := mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != int(domain.StatusMFAInvalid) {
		t.Errorf("CODE = %d, want %d", code, domain.StatusMFAInvalid)
	}
	if _, ok := accessKey(resp); ok {
		t.Error("failed verification must not carry an ACCESSKEY")
	}
}

func TestSignon_MFAAnswersWrong(t *testing.T) {
	challenges := domain.StandardChallenges()
	s := newTestServer(Config{Challenges: challenges})

	mustProcess(t, s, signonDoc(credentials("alice", "secret"), ofx.New("MFACHALLENGETRNRQ")))

	fields := credentials("alice", "secret")
	for _, c := range challenges {
		fields = append(fields, ofx.New("MFACHALLENGEANSWER",
			ofx.Str("MFAPRHASEID", c.PhraseID),
			ofx.Str("MFAPHRASEA", "wrong"),
		))
	}
	resp := mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != int(domain.StatusMFAInvalid) {
		t.Errorf("CODE = %d, want %d", code, domain.StatusMFAInvalid)
	}
	if s.Snapshot().AccessKeyIssued {
		t.Error("no access key should exist after failed verification")
	}
}

// obtainAccessKey drives the full MFA round trip and returns the key.
func obtainAccessKey(t *testing.T, s *Server) string {
	t.Helper()
	mustProcess(t, s, signonDoc(credentials("alice", "secret"), ofx.New("MFACHALLENGETRNRQ")))

	fields := credentials("alice", "secret")
	for _, c := range s.Snapshot().Challenges {
		fields = append(fields, ofx.New("MFACHALLENGEANSWER",
			ofx.Str("MFAPRHASEID", c.PhraseID),
			ofx.Str("MFAPHRASEA", c.PhraseAnswer),
		))
	}
	resp := mustProcess(t, s, signonDoc(fields))
	key, ok := accessKey(resp)
	if !ok || key == "" {
		t.Fatal("could not obtain access key")
	}
	return key
}

func TestSignon_AccessKeyReuse(t *testing.T) {
	s := newTestServer(Config{
		Challenges:     domain.StandardChallenges(),
		AuthTokenLabel: "Authentication Token",
		AuthToken:      "token-1234",
	})
	key := obtainAccessKey(t, s)

	// A request carrying the issued key bypasses both the MFA and the
	// auth-token requirements.
	fields := append(credentials("alice", "secret"), ofx.Str("ACCESSKEY", key))
	resp := mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != 0 {
		t.Errorf("CODE = %d, want 0", code)
	}

	// And again: the key does not expire.
	resp = mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != 0 {
		t.Errorf("second reuse: CODE = %d, want 0", code)
	}
}

func TestSignon_StaleAccessKeyRejected(t *testing.T) {
	s := newTestServer(Config{Challenges: domain.StandardChallenges()})
	key := obtainAccessKey(t, s)

	// Reconfiguring the auth token invalidates the key; the MFA flow
	// starts over.
	s.SetAuthToken("Authentication Token", "token-5678")

	fields := append(credentials("alice", "secret"), ofx.Str("ACCESSKEY", key))
	resp := mustProcess(t, s, signonDoc(fields))
	if code := signonCode(t, resp); code != int(domain.StatusMFAChallengeRequired) {
		t.Errorf("CODE = %d, want %d", code, domain.StatusMFAChallengeRequired)
	}
}

func TestSignon_AuthToken(t *testing.T) {
	cfg := Config{AuthTokenLabel: "Authentication Token", AuthToken: "token-1234"}

	t.Run("absent", func(t *testing.T) {
		s := newTestServer(cfg)
		resp := mustProcess(t, s, signonDoc(credentials("alice", "secret")))
		if code := signonCode(t, resp); code != int(domain.StatusAuthTokenRequired) {
			t.Errorf("CODE = %d, want %d", code, domain.StatusAuthTokenRequired)
		}
	})

	t.Run("wrong", func(t *testing.T) {
		s := newTestServer(cfg)
		fields := append(credentials("alice", "secret"), ofx.Str("AUTHTOKEN", "nope"))
		resp := mustProcess(t, s, signonDoc(fields))
		if code := signonCode(t, resp); code != int(domain.StatusAuthTokenInvalid) {
			t.Errorf("CODE = %d, want %d", code, domain.StatusAuthTokenInvalid)
		}
	})

	t.Run("correct", func(t *testing.T) {
		s := newTestServer(cfg)
		fields := append(credentials("alice", "secret"), ofx.Str("AUTHTOKEN", "token-1234"))
		resp := mustProcess(t, s, signonDoc(fields))
		if code := signonCode(t, resp); code != 0 {
			t.Errorf("CODE = %d, want 0", code)
		}
		if key, ok := accessKey(resp); !ok || key == "" {
			t.Error("valid AUTHTOKEN must mint an ACCESSKEY")
		}
	})
}

func TestSignon_ProfileRequestSkipsChallenge(t *testing.T) {
	s := newTestServer(Config{Challenges: domain.StandardChallenges()})

	// A document carrying a profile request is exempt from the whole
	// challenge flow, credentials included.
	doc := ofx.New("OFX",
		ofx.New("SIGNONMSGSRQV1", ofx.New("SONRQ",
			ofx.Str("USERID", "whoever"),
			ofx.Str("USERPASS", "whatever"),
		)),
		ofx.New("PROFMSGSRQV1", ofx.New("PROFTRNRQ",
			ofx.Str("TRNUID", "6ab04f71-6bcb-44d2-a021-16931e1f251d"),
		)),
	)
	resp := mustProcess(t, s, doc)
	if code := signonCode(t, resp); code != 0 {
		t.Errorf("CODE = %d, want 0", code)
	}
	if resp.Find("PROFMSGSRSV1") == nil {
		t.Error("response should carry the profile message set")
	}
}

func TestSignon_MissingSONRQ(t *testing.T) {
	s := newTestServer(Config{})
	doc := ofx.New("OFX", ofx.New("SIGNONMSGSRQV1"))
	if _, err := s.ProcessRequest(doc); err == nil {
		t.Error("a signon wrapper without SONRQ must be rejected")
	}
}

func TestProcessRequest_UnknownWrappersIgnored(t *testing.T) {
	s := newTestServer(Config{})
	doc := ofx.New("OFX", ofx.New("CREDITCARDMSGSRQV1"))
	resp := mustProcess(t, s, doc)
	if len(resp.Children) != 0 {
		t.Errorf("unknown wrapper should produce no response entries, got %d", len(resp.Children))
	}
}
