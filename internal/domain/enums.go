package domain

// PhraseKind tags the structural shape a phrase was produced in
// (how many words, or free selection), not its topic.
type PhraseKind string

const (
	PhraseKindSingleWord PhraseKind = "SINGLE_WORD"
	PhraseKindTwoWord    PhraseKind = "TWO_WORD"
	PhraseKindThreeWord  PhraseKind = "THREE_WORD"
	PhraseKindSelected   PhraseKind = "SELECTED"
	PhraseKindTest       PhraseKind = "TEST"
)

func (k PhraseKind) String() string { return string(k) }

func (k PhraseKind) IsValid() bool {
	switch k {
	case PhraseKindSingleWord, PhraseKindTwoWord, PhraseKindThreeWord,
		PhraseKindSelected, PhraseKindTest:
		return true
	}
	return false
}

// Source identifies the upstream producer of a phrase record.
type Source string

const (
	SourceNews   Source = "news"
	SourceSocial Source = "social"
	SourceLLM    Source = "llm"
	SourceUser   Source = "user"
	SourceTest   Source = "test"
)

func (s Source) String() string { return string(s) }

func (s Source) IsValid() bool {
	switch s {
	case SourceNews, SourceSocial, SourceLLM, SourceUser, SourceTest:
		return true
	}
	return false
}
