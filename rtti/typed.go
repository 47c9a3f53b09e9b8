package rtti

// Typed is implemented by every value that carries a type record.
type Typed interface {
	Type() *Type
}

// typeOf returns obj's record, tolerating nil interfaces.
func typeOf(obj Typed) *Type {
	if obj == nil {
		return nil
	}
	return obj.Type()
}

// Is reports whether obj's type is t or derives from t.
func Is(obj Typed, t *Type) bool {
	return IsDerived(typeOf(obj), t)
}

// IsExactly reports whether obj's type is exactly t.
func IsExactly(obj Typed, t *Type) bool {
	return typeOf(obj).IsExactly(t)
}

// SameType reports whether a and b carry the same record.
func SameType(a, b Typed) bool {
	return typeOf(a).IsExactly(typeOf(b))
}

// DerivedFromSameType reports whether a's type derives from b's type.
func DerivedFromSameType(a, b Typed) bool {
	return IsDerived(typeOf(a), typeOf(b))
}

// As downcasts obj to T after checking that obj's record derives from t.
// A failed check, or a T that obj's concrete value does not satisfy,
// returns the zero T and false.
func As[T any](obj Typed, t *Type) (T, bool) {
	var zero T
	if !Is(obj, t) {
		return zero, false
	}
	v, ok := obj.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
