package server

import (
	"math"
	"time"

	"github.com/finsim/ofxserve/internal/ofx"
	"github.com/finsim/ofxserve/pkg/domain"
)

// processBank handles every STMTTRNRQ in the wrapper independently: a
// failing sub-request yields an error aggregate in its slot without
// aborting its siblings.
func (s *Server) processBank(e *ofx.Element) *ofx.Element {
	r := ofx.New("BANKMSGSRSV1")
	for _, stmtReq := range e.ChildrenNamed("STMTTRNRQ") {
		r.Add(s.processStatementRequest(stmtReq))
	}
	return r
}

func (s *Server) processStatementRequest(e *ofx.Element) *ofx.Element {
	stmt, err := s.buildStatement(e)
	if err != nil {
		s.logger.Warn("statement request failed", "error", err)
		return ofx.New("STMTTRNRS",
			ofx.Str("TRNUID", s.transactionID(e)),
			ofx.New("STATUS",
				ofx.Int("CODE", int(domain.StatusGeneralError)),
				ofx.Str("SEVERITY", string(domain.SeverityError)),
				ofx.Str("MESSAGE", err.Error()),
			),
		)
	}
	return stmt
}

// buildStatement echoes the requested account and synthesizes a
// one-month statement: ten random transactions and fixed balances.
func (s *Server) buildStatement(e *ofx.Element) (*ofx.Element, error) {
	acct := e.Find("BANKACCTFROM")
	if acct == nil {
		return nil, domain.ErrMissingBankAccount
	}

	end := s.now()
	start := end.AddDate(0, -1, 0)

	banktranlist := ofx.New("BANKTRANLIST",
		ofx.Str("DTSTART", ofx.FormatDateTime(start)),
		ofx.Str("DTEND", ofx.FormatDateTime(end)),
	)
	banktranlist.Add(s.randomTransactions(start, end)...)

	return ofx.New("STMTTRNRS",
		ofx.Str("TRNUID", s.transactionID(e)),
		ofx.New("STATUS",
			ofx.Str("CODE", "0"),
			ofx.Str("SEVERITY", "INFO"),
		),
		ofx.Str("CLTCOOKIE", "1"),
		ofx.New("STMTRS",
			ofx.Str("CURDEF", "USD"),
			acct,
			banktranlist,
			ofx.New("LEDGERBAL",
				ofx.Str("BALAMT", "8722.69"),
				ofx.Str("DTASOF", ofx.FormatDateTime(s.now())),
			),
			ofx.New("AVAILBAL",
				ofx.Str("BALAMT", "8717.69"),
				ofx.Str("DTASOF", ofx.FormatDateTime(s.now())),
			),
		),
	), nil
}

// randomTransactions generates ten transactions spaced evenly across
// the date range. Each draws a random payee and an amount sampled
// uniformly from that payee's range, rounded to two decimals; the sign
// of the amount picks DEBIT or CREDIT.
func (s *Server) randomTransactions(start, end time.Time) []*ofx.Element {
	incr := end.Sub(start) / 10
	posted := start

	result := make([]*ofx.Element, 0, 10)
	for index := 0; index < 10; index++ {
		payee := s.payees[s.rng.Intn(len(s.payees))]
		amount := payee.Min + s.rng.Float64()*(payee.Max-payee.Min)
		amount = math.Round(amount*100) / 100

		trnType := "DEBIT"
		if amount > 0 {
			trnType = "CREDIT"
		}

		result = append(result, ofx.New("STMTTRN",
			ofx.Str("TRNTYPE", trnType),
			ofx.Str("DTPOSTED", ofx.FormatDateTime(posted)),
			ofx.Amount("TRNAMT", amount),
			ofx.Int("FITID", index),
			ofx.Str("NAME", payee.Name),
		))

		posted = posted.Add(incr)
	}
	return result
}
