package types

// Value carries a type, a backend reference, and the bits that drive
// lowering decisions: whether it's an address requiring a load, whether its
// lifetime ends at the statement, whether ownership may be taken on
// assignment, and the implicit receiver for method calls. Ref is opaque
// here (an IR-builder-specific SSA handle, internal/ir.Value) so this
// package stays independent of the backend.
type Value struct {
	Type Type
	Ref  any

	IsAlloca        bool // an address on the stack; reading requires a load
	IsTemporary     bool // lifetime ends at the enclosing statement
	CanBeTaken      bool // ownership transferable on assignment (avoids a copy)
	CallingVariable *Value // for methods: the implicitly bound "this" receiver
}

// IsCallable lets a Value naming a first-class function value sit in a
// NameArray alongside other overloads when that function decays to a
// pointer.
func (v *Value) IsCallable() bool {
	_, ok := v.Type.(*Function)
	return ok
}
