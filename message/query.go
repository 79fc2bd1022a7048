package message

// Empty is a zero-length-body message, used by the GET_* query family and
// the STP_* stream-stop family (§6). The wire type_name is carried on the
// value itself so one Go type serves every empty-body message.
type Empty struct {
	Name string
}

func (e Empty) TypeName() string { return e.Name }

func (e Empty) EncodeContent() ([]byte, error) { return nil, nil }

func decodeEmpty(name string) DecodeFunc {
	return func(body []byte) (Content, error) {
		return Empty{Name: name}, nil
	}
}

// Query type names, all zero-length bodies.
const (
	GetCapabilTypeName = "GET_CAPABIL"
	GetStatusTypeName  = "GET_STATUS"
	GetTransforTypeName = "GET_TRANSFOR"
	GetImageTypeName   = "GET_IMAGE"
	GetTDataTypeName   = "GET_TDATA"
	GetPointTypeName   = "GET_POINT"
	GetImgMetaTypeName = "GET_IMGMETA"
	GetLbMetaTypeName  = "GET_LBMETA"
)

var queryTypeNames = []string{
	GetCapabilTypeName, GetStatusTypeName, GetTransforTypeName, GetImageTypeName,
	GetTDataTypeName, GetPointTypeName, GetImgMetaTypeName, GetLbMetaTypeName,
}

func init() {
	for _, name := range queryTypeNames {
		register(name, decodeEmpty(name))
	}
}

// NewQuery builds the Empty-bodied query message for the given GET_* type
// name, e.g. NewQuery(GetTDataTypeName).
func NewQuery(typeName string) Empty {
	return Empty{Name: typeName}
}
