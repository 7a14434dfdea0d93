package domain

import "errors"

// Protocol errors. Validation failures inside the sign-on flow are
// represented as OFX STATUS data, not Go errors; these sentinels cover
// the cases where a request cannot be dispatched at all and the
// transport surfaces the failure as HTTP 400.
var (
	ErrMissingSignonRequest = errors.New("missing SONRQ")
	ErrMissingBankAccount   = errors.New("missing BANKACCTFROM")
)
