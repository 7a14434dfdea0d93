package server

import "github.com/finsim/ofxserve/internal/ofx"

// processSignup returns the canned account-info response: one active
// checking account with a fixed identity. Stateless; always succeeds.
func (s *Server) processSignup(e *ofx.Element) *ofx.Element {
	return ofx.New("SIGNUPMSGSRSV1",
		ofx.New("ACCTINFOTRNRS",
			ofx.Str("TRNUID", s.transactionID(e)),
			ofx.New("STATUS",
				ofx.Str("CODE", "0"),
				ofx.Str("SEVERITY", "INFO"),
			),
			ofx.Str("CLTCOOKIE", "1"),
			ofx.New("ACCTINFORS",
				ofx.Str("DTACCTUP", ofx.FormatDateTime(s.now())),
				ofx.New("ACCTINFO",
					ofx.Str("DESC", "Checking"),
					ofx.New("BANKACCTINFO",
						ofx.New("BANKACCTFROM",
							ofx.Str("BANKID", "123456"),
							ofx.Str("ACCTID", "456789"),
							ofx.Str("ACCTTYPE", "CHECKING"),
						),
						ofx.Str("SUPTXDL", "Y"),
						ofx.Str("XFERSRC", "Y"),
						ofx.Str("XFERDEST", "Y"),
						ofx.Str("SVCSTATUS", "ACTIVE"),
					),
				),
			),
		),
	)
}
