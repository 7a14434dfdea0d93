package server

import (
	"github.com/google/uuid"

	"github.com/finsim/ofxserve/internal/ofx"
	"github.com/finsim/ofxserve/pkg/domain"
)

// processChangePassword handles the PINCHTRNRQ wrapper. The new user
// id must match the known user and the new password must be non-empty;
// any failure leaves the credential set untouched and maps to the
// single could-not-change code. Success updates the password and
// clears the forced-change mode.
func (s *Server) processChangePassword(e *ofx.Element) *ofx.Element {
	st := signonStatus{severity: domain.SeverityInfo}
	user := ""

	req := e.Child("PINCHRQ")
	switch {
	case req == nil:
		st.message = "Missing PINCHRQ"
	default:
		u, ok := req.ChildValue("USERID")
		if !ok {
			st.message = "Missing USERID"
			break
		}
		user = u
		if user != s.creds.UserName {
			st.message = "User id unknown"
			break
		}
		newPass, ok := req.ChildValue("NEWUSERPASS")
		if !ok || newPass == "" {
			st.message = "Cannot have empty password"
			break
		}
		s.creds.Password = newPass
		s.changePassword = false
	}

	if st.message != "" {
		st.code = domain.StatusCouldNotChangePassword
		st.severity = domain.SeverityError
	}

	return ofx.New("PINCHTRNRS",
		ofx.Str("TRNUID", s.transactionID(e)),
		ofx.New("STATUS",
			ofx.Int("CODE", int(st.code)),
			ofx.Str("SEVERITY", string(st.severity)),
			ofx.Str("MESSAGE", st.message),
		),
		ofx.New("PINCHRS",
			ofx.Str("USERID", user),
			ofx.Str("DTCHANGED", ofx.FormatDateTime(s.now())),
		),
	)
}

// transactionID echoes the request's TRNUID, minting one when absent.
func (s *Server) transactionID(e *ofx.Element) string {
	if t := e.Find("TRNUID"); t != nil {
		return t.Text
	}
	return uuid.NewString()
}
