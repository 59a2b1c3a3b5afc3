package molecule

import (
	"fmt"
	"strconv"
)

// ValueType discriminates the payload of a Value.
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeVector // 3-component position vector
)

// Value is a typed attribute value. Atom and pattern-node attributes are
// stored and compared as Values so attribute queries can match on exact
// equality regardless of the underlying type.
type Value struct {
	Type ValueType
	str  string
	num  float64
	b    bool
	vec  Vec3
}

func StringValue(s string) Value {
	return Value{Type: TypeString, str: s}
}

func IntValue(i int) Value {
	return Value{Type: TypeInt, num: float64(i)}
}

func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, num: f}
}

func BoolValue(b bool) Value {
	return Value{Type: TypeBool, b: b}
}

func VectorValue(v Vec3) Value {
	return Value{Type: TypeVector, vec: v}
}

// AsString returns the string payload.
func (v Value) AsString() (string, error) {
	if v.Type != TypeString {
		return "", fmt.Errorf("value is not a string")
	}
	return v.str, nil
}

// AsInt returns the integer payload.
func (v Value) AsInt() (int, error) {
	if v.Type != TypeInt {
		return 0, fmt.Errorf("value is not an int")
	}
	return int(v.num), nil
}

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, error) {
	if v.Type != TypeFloat {
		return 0, fmt.Errorf("value is not a float")
	}
	return v.num, nil
}

// AsBool returns the bool payload.
func (v Value) AsBool() (bool, error) {
	if v.Type != TypeBool {
		return false, fmt.Errorf("value is not a bool")
	}
	return v.b, nil
}

// AsVector returns the vector payload.
func (v Value) AsVector() (Vec3, error) {
	if v.Type != TypeVector {
		return Vec3{}, fmt.Errorf("value is not a vector")
	}
	return v.vec, nil
}

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case TypeString:
		return v.str == other.str
	case TypeInt, TypeFloat:
		return v.num == other.num
	case TypeBool:
		return v.b == other.b
	case TypeVector:
		return v.vec == other.vec
	default:
		return false
	}
}

// String renders the value for error messages and logs.
func (v Value) String() string {
	switch v.Type {
	case TypeString:
		return v.str
	case TypeInt:
		return strconv.Itoa(int(v.num))
	case TypeFloat:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeVector:
		return fmt.Sprintf("(%g, %g, %g)", v.vec[0], v.vec[1], v.vec[2])
	default:
		return "<invalid>"
	}
}
