package binarycodec

const (
	typeUInt16    = 1
	typeUInt32    = 2
	typeAmount    = 6
	typeBlob      = 7
	typeAccountID = 8
	typeSTObject  = 14
	typeSTArray   = 15
	typeUInt8     = 16

	objectEndMarker = 0xE1
	arrayEndMarker  = 0xF1
)

type fieldDef struct {
	name     string
	typeCode int
	nth      int
	// signing is false for fields excluded from the signed data.
	signing bool
}

func (f fieldDef) less(other fieldDef) bool {
	if f.typeCode != other.typeCode {
		return f.typeCode < other.typeCode
	}
	return f.nth < other.nth
}

var fields = map[string]fieldDef{}

func init() {
	for _, def := range []fieldDef{
		{name: "TransactionType", typeCode: typeUInt16, nth: 2, signing: true},
		{name: "NetworkID", typeCode: typeUInt32, nth: 1, signing: true},
		{name: "Flags", typeCode: typeUInt32, nth: 2, signing: true},
		{name: "SourceTag", typeCode: typeUInt32, nth: 3, signing: true},
		{name: "Sequence", typeCode: typeUInt32, nth: 4, signing: true},
		{name: "Expiration", typeCode: typeUInt32, nth: 10, signing: true},
		{name: "TransferRate", typeCode: typeUInt32, nth: 11, signing: true},
		{name: "DestinationTag", typeCode: typeUInt32, nth: 14, signing: true},
		{name: "OfferSequence", typeCode: typeUInt32, nth: 25, signing: true},
		{name: "LastLedgerSequence", typeCode: typeUInt32, nth: 27, signing: true},
		{name: "SetFlag", typeCode: typeUInt32, nth: 33, signing: true},
		{name: "ClearFlag", typeCode: typeUInt32, nth: 34, signing: true},
		{name: "Amount", typeCode: typeAmount, nth: 1, signing: true},
		{name: "LimitAmount", typeCode: typeAmount, nth: 3, signing: true},
		{name: "TakerPays", typeCode: typeAmount, nth: 4, signing: true},
		{name: "TakerGets", typeCode: typeAmount, nth: 5, signing: true},
		{name: "Fee", typeCode: typeAmount, nth: 8, signing: true},
		{name: "SendMax", typeCode: typeAmount, nth: 9, signing: true},
		{name: "DeliverMin", typeCode: typeAmount, nth: 10, signing: true},
		{name: "SigningPubKey", typeCode: typeBlob, nth: 3, signing: true},
		{name: "TxnSignature", typeCode: typeBlob, nth: 4, signing: false},
		{name: "Domain", typeCode: typeBlob, nth: 7, signing: true},
		{name: "MemoType", typeCode: typeBlob, nth: 12, signing: true},
		{name: "MemoData", typeCode: typeBlob, nth: 13, signing: true},
		{name: "MemoFormat", typeCode: typeBlob, nth: 14, signing: true},
		{name: "Account", typeCode: typeAccountID, nth: 1, signing: true},
		{name: "Destination", typeCode: typeAccountID, nth: 3, signing: true},
		{name: "Memo", typeCode: typeSTObject, nth: 10, signing: true},
		{name: "Memos", typeCode: typeSTArray, nth: 9, signing: true},
		{name: "TickSize", typeCode: typeUInt8, nth: 16, signing: true},
	} {
		fields[def.name] = def
	}
}

var transactionTypes = map[string]uint16{
	"Payment":       0,
	"AccountSet":    3,
	"SetRegularKey": 5,
	"OfferCreate":   7,
	"OfferCancel":   8,
	"TrustSet":      20,
}

// fieldHeader encodes the type and field codes in one to three bytes.
func fieldHeader(typeCode, nth int) []byte {
	switch {
	case typeCode < 16 && nth < 16:
		return []byte{byte(typeCode<<4 | nth)}
	case typeCode < 16:
		return []byte{byte(typeCode << 4), byte(nth)}
	case nth < 16:
		return []byte{byte(nth), byte(typeCode)}
	default:
		return []byte{0, byte(typeCode), byte(nth)}
	}
}
