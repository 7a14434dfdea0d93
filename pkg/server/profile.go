package server

import "github.com/finsim/ofxserve/internal/ofx"

// processProfile returns the canned capabilities document: supported
// message sets, the sign-on policy echoing the configured credential
// labels, and the institution identity and address. Stateless; always
// succeeds.
func (s *Server) processProfile(e *ofx.Element) *ofx.Element {
	return ofx.New("PROFMSGSRSV1",
		ofx.New("PROFTRNRS",
			ofx.Str("TRNUID", s.transactionID(e)),
			ofx.New("STATUS",
				ofx.Int("CODE", 0),
				ofx.Str("SEVERITY", "INFO"),
			),
			ofx.New("PROFRS",
				ofx.New("MSGSETLIST",
					ofx.New("SIGNONMSGSET",
						ofx.New("SIGNONMSGSETV1", s.msgSetCore()),
					),
					ofx.New("SIGNUPMSGSET",
						ofx.New("SIGNUPMSGSETV1", s.msgSetCore(),
							ofx.New("WEBENROLL",
								ofx.Str("URL", "http://localhost"),
							),
							ofx.Str("CHGUSERINFO", "N"),
							ofx.Str("AVAILACCTS", "Y"),
							ofx.Str("CLIENTACTREQ", "N"),
						),
					),
					ofx.New("BANKMSGSET",
						ofx.New("BANKMSGSETV1", s.msgSetCore(),
							ofx.Str("CLOSINGAVAIL", "N"),
							ofx.New("XFERPROF",
								ofx.Str("PROCENDTM", "235959[0:GMT]"),
								ofx.Str("CANSCHED", "Y"),
								ofx.Str("CANRECUR", "N"),
								ofx.Str("CANMODXFERS", "N"),
								ofx.Str("CANMODMDLS", "N"),
								ofx.Str("MODELWND", "0"),
								ofx.Str("DAYSWITH", "0"),
								ofx.Str("DFLTDAYSTOPAY", "0"),
							),
							ofx.New("EMAILPROF",
								ofx.Str("CANEMAIL", "N"),
								ofx.Str("CANNOTIFY", "Y"),
							),
						),
					),
					ofx.New("PROFMSGSET",
						ofx.New("PROFMSGSETV1", s.msgSetCore()),
					),
				),
				ofx.New("SIGNONINFOLIST", s.signOnInfo()),
				ofx.Str("DTPROFUP", "20111031070000.000[0:GMT]"),
				ofx.Str("FINAME", "Last Chance Bank of Hope"),
				ofx.Str("ADDR1", "123 Walkabout Drive"),
				ofx.Str("CITY", "Wooloomaloo"),
				ofx.Str("STATE", "WA"),
				ofx.Str("POSTALCODE", "12345"),
				ofx.Str("COUNTRY", "USA"),
				ofx.Str("CSPHONE", "123-456-7890"),
				ofx.Str("URL", "http://localhost"),
				ofx.Str("EMAIL", "feedback@localhost.org"),
			),
		),
	)
}

func (s *Server) msgSetCore() *ofx.Element {
	return ofx.New("MSGSETCORE",
		ofx.Int("VER", 1),
		ofx.Str("URL", s.url),
		ofx.Str("OFXSEC", "NONE"),
		ofx.Str("TRANSPSEC", "Y"),
		ofx.Str("SIGNONREALM", "DefaultRealm"),
		ofx.Str("LANGUAGE", "ENG"),
		ofx.Str("SYNCMODE", "FULL"),
		ofx.Str("RESPFILEER", "Y"),
		ofx.Str("SPNAME", "Corillian Corp"),
	)
}

func (s *Server) signOnInfo() *ofx.Element {
	return ofx.New("SIGNONINFO",
		ofx.Str("SIGNONREALM", "DefaultRealm"),
		ofx.Str("MIN", "6"),
		ofx.Str("MAX", "32"),
		ofx.Str("CHARTYPE", "ALPHAORNUMERIC"),
		ofx.Str("CASESEN", "N"),
		ofx.Str("SPECIAL", "N"),
		ofx.Str("SPACES", "N"),
		ofx.Str("PINCH", "Y"),
		ofx.Str("CHGPINFIRST", "N"),
		ofx.Str("USERCRED1LABEL", s.creds.UserCred1Label),
		ofx.Str("USERCRED2LABEL", s.creds.UserCred2Label),
		ofx.Str("CLIENTUIDREQ", "Y"),
		ofx.Str("AUTHTOKENFIRST", "N"),
		ofx.Str("AUTHTOKENLABEL", "Authentication Token"),
		ofx.Str("AUTHTOKENINFOURL", "http://www.bing.com"),
		ofx.Str("MFACHALLENGESUPT", "Y"),
		ofx.Str("MFACHALLENGEFIRST", "N"),
	)
}
