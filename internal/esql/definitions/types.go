package definitions

import "strings"

// Type is a parameter, return or resolved value type.
type Type string

// Data types.
const (
	TypeBoolean        Type = "boolean"
	TypeCartesianPoint Type = "cartesian_point"
	TypeDate           Type = "date"
	TypeDouble         Type = "double"
	TypeInteger        Type = "integer"
	TypeIP             Type = "ip"
	TypeKeyword        Type = "keyword"
	TypeLong           Type = "long"
	TypeText           Type = "text"
	TypeUnsignedLong   Type = "unsigned_long"
	TypeVersion        Type = "version"
	TypeGeoPoint       Type = "geo_point"
)

// Pseudo types used by the catalog and by type resolution.
const (
	TypeAny             Type = "any"
	TypeColumn          Type = "column"
	TypeFunction        Type = "function"
	TypeSource          Type = "source"
	TypeTimeInterval    Type = "timeInterval"
	TypeTimeLiteral     Type = "time_literal"
	TypeTimeLiteralUnit Type = "time_literal_unit"
	TypeVoid            Type = "void"
	TypePolicy          Type = "policy"

	// Literal types that only come out of type resolution.
	TypeDecimal Type = "decimal"
	TypeNull    Type = "null"
	TypeParam   Type = "param"
)

// DataTypes lists every concrete field type.
var DataTypes = []Type{
	TypeBoolean, TypeCartesianPoint, TypeDate, TypeDouble, TypeGeoPoint, TypeInteger,
	TypeIP, TypeKeyword, TypeLong, TypeText, TypeUnsignedLong, TypeVersion,
}

// NumericTypes lists the numeric field types.
var NumericTypes = []Type{TypeDouble, TypeInteger, TypeLong, TypeUnsignedLong}

var catalogTypes = map[Type]bool{
	TypeAny: true, TypeColumn: true, TypeFunction: true, TypeSource: true,
	TypeTimeLiteral: true, TypeTimeLiteralUnit: true, TypeVoid: true, TypePolicy: true,
}

func init() {
	for _, t := range DataTypes {
		catalogTypes[t] = true
	}
}

// IsValid reports whether t may appear in a catalog signature.
func (t Type) IsValid() bool {
	return catalogTypes[t.Elem()]
}

// IsArray reports whether t is a list type such as "keyword[]".
func (t Type) IsArray() bool {
	return strings.HasSuffix(string(t), "[]")
}

// Elem returns the element type of an array type, or t itself.
func (t Type) Elem() Type {
	return Type(strings.TrimSuffix(string(t), "[]"))
}

// ArrayOf returns the list type of t.
func ArrayOf(t Type) Type {
	return t + "[]"
}

// IsNumeric reports whether t is a numeric field type.
func (t Type) IsNumeric() bool {
	for _, n := range NumericTypes {
		if t == n {
			return true
		}
	}
	return false
}

// IsString reports whether t is a string type.
func (t Type) IsString() bool {
	return t == TypeKeyword || t == TypeText
}

// Title returns the type name with its first letter upper-cased.
func (t Type) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CompatibleTypes reports whether a value of type actual may be passed
// where expected is declared. Literal types are widened: decimals are
// doubles, integer literals fit every numeric type, and null fits
// anything.
func CompatibleTypes(actual, expected Type) bool {
	if actual == expected || expected == TypeAny || actual == TypeAny {
		return true
	}
	switch actual {
	case TypeNull, TypeParam:
		return true
	case TypeDecimal:
		return expected == TypeDouble
	case TypeInteger:
		return expected.IsNumeric()
	case TypeKeyword, TypeText:
		return expected.IsString()
	case TypeTimeInterval:
		return expected == TypeTimeLiteral
	}
	return false
}

// ContainsType reports whether ts has a type compatible with t.
func ContainsType(ts []Type, t Type) bool {
	for _, candidate := range ts {
		if CompatibleTypes(t, candidate) {
			return true
		}
	}
	return false
}
