package ledger

import "context"

func (s *Session) AccountInfo(ctx context.Context, account string) (*AccountInfoResult, error) {
	var out AccountInfoResult
	err := s.Request(ctx, Request{
		"command":      "account_info",
		"account":      account,
		"ledger_index": "validated",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AccountLines lists account's trust lines, limited to those shared with
// peer when peer is not empty.
func (s *Session) AccountLines(ctx context.Context, account, peer string) ([]TrustLine, error) {
	req := Request{
		"command":      "account_lines",
		"account":      account,
		"ledger_index": "validated",
	}
	if peer != "" {
		req["peer"] = peer
	}
	var out AccountLinesResult
	if err := s.Request(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.Lines, nil
}

// AccountTx returns the newest transactions first.
func (s *Session) AccountTx(ctx context.Context, account string, limit int) (*AccountTxResult, error) {
	var out AccountTxResult
	err := s.Request(ctx, Request{
		"command":          "account_tx",
		"account":          account,
		"ledger_index_min": -1,
		"ledger_index_max": -1,
		"binary":           false,
		"forward":          false,
		"limit":            limit,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
