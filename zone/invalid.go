package zone

// InvalidZone is returned for input that names no zone. It is never retried.
type InvalidZone struct {
	input string
}

// Invalid wraps unresolvable input.
func Invalid(input string) *InvalidZone {
	return &InvalidZone{input: input}
}

func (z *InvalidZone) Type() string                        { return "invalid" }
func (z *InvalidZone) Name() string                        { return z.input }
func (z *InvalidZone) Universal() bool                     { return false }
func (z *InvalidZone) IsValid() bool                       { return false }
func (z *InvalidZone) Offset(int64) int                    { return 0 }
func (z *InvalidZone) OffsetName(int64, NameFormat) string { return "" }
func (z *InvalidZone) Equals(Zone) bool                    { return false }

func (z *InvalidZone) FormatOffset(int64, OffsetFormat) string { return "" }
