package term

// Base is the create payload. Both fields are required.
type Base struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// Term is the public record: Base plus the generated id.
type Term struct {
	ID      int64  `json:"id"`
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// Field is an optional string that remembers whether it was supplied.
// A Field with Set true and an empty Value is an explicit empty string,
// distinct from an absent field.
type Field struct {
	Value string
	Set   bool
}

// Some returns a Field holding v.
func Some(v string) Field {
	return Field{Value: v, Set: true}
}

// Update is a merge-patch: only fields with Set true are applied.
type Update struct {
	Word    Field
	Meaning Field
}

// IsEmpty reports whether the update carries no fields.
func (u Update) IsEmpty() bool {
	return !u.Word.Set && !u.Meaning.Set
}

// Apply merges the present fields of u into t.
func (u Update) Apply(t *Term) {
	if u.Word.Set {
		t.Word = u.Word.Value
	}
	if u.Meaning.Set {
		t.Meaning = u.Meaning.Value
	}
}
