package window

// PropKind tags the concrete type of a native window property value.
type PropKind int

const (
	PropUnrecognized PropKind = iota
	PropInt
	PropFloat
	PropBool
	PropString
	PropDict
)

// PropValue is a tagged variant for one entry of a native window property
// dictionary. Window servers hand back heterogeneous dictionaries of numbers,
// strings, booleans and nested dictionaries; every entry of a kind we do not
// understand is carried as PropUnrecognized instead of being dropped.
type PropValue struct {
	Kind  PropKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Dict  map[string]PropValue
}

func IntProp(v int64) PropValue         { return PropValue{Kind: PropInt, Int: v} }
func FloatProp(v float64) PropValue     { return PropValue{Kind: PropFloat, Float: v} }
func BoolProp(v bool) PropValue         { return PropValue{Kind: PropBool, Bool: v} }
func StringProp(v string) PropValue     { return PropValue{Kind: PropString, Str: v} }
func DictProp(v map[string]PropValue) PropValue { return PropValue{Kind: PropDict, Dict: v} }

// AsFloat returns the numeric value of an int or float property.
func (p PropValue) AsFloat() (float64, bool) {
	switch p.Kind {
	case PropFloat:
		return p.Float, true
	case PropInt:
		return float64(p.Int), true
	}
	return 0, false
}

// Canonical property keys produced by the platform enumerators.
const (
	PropKeyID     = "id"
	PropKeyName   = "name"
	PropKeyOwner  = "owner"
	PropKeyBounds = "bounds"
)

// DescriptorFromProps builds a Descriptor from a raw native property
// dictionary. Windows without an id, name and owner are not representable and
// yield ok=false. Bounds are optional: a missing or mistyped bounds dictionary
// leaves Descriptor.Bounds nil rather than failing the whole window.
func DescriptorFromProps(props map[string]PropValue) (Descriptor, bool) {
	id, ok := props[PropKeyID]
	if !ok || id.Kind != PropInt {
		return Descriptor{}, false
	}
	name, ok := props[PropKeyName]
	if !ok || name.Kind != PropString {
		return Descriptor{}, false
	}
	owner, ok := props[PropKeyOwner]
	if !ok || owner.Kind != PropString {
		return Descriptor{}, false
	}

	d := Descriptor{
		ID:         id.Int,
		Name:       name.Str,
		OwnerName:  owner.Str,
		SampleRate: DefaultSampleRate,
	}

	if b, ok := props[PropKeyBounds]; ok && b.Kind == PropDict {
		x, okX := b.Dict["x"].AsFloat()
		y, okY := b.Dict["y"].AsFloat()
		w, okW := b.Dict["width"].AsFloat()
		h, okH := b.Dict["height"].AsFloat()
		if okX && okY && okW && okH {
			d.Bounds = &Bounds{X: x, Y: y, Width: w, Height: h}
		}
	}

	return d, true
}
