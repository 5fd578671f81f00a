package cpp

import "github.com/jerer/cythonwrapper/internal/frontend"

// cursor is the materialized frontend.Cursor produced by the converter. All
// fields are filled during conversion; nothing is computed lazily.
type cursor struct {
	kind         frontend.Kind
	spelling     string
	display      string
	typeSpelling string
	resultType   string
	underlying   string
	access       frontend.Access
	static       bool
	file         string
	comment      string
	children     []frontend.Cursor
	tokens       []string
}

func (c *cursor) Kind() frontend.Kind           { return c.kind }
func (c *cursor) Spelling() string              { return c.spelling }
func (c *cursor) TypeSpelling() string          { return c.typeSpelling }
func (c *cursor) ResultTypeSpelling() string    { return c.resultType }
func (c *cursor) UnderlyingTypedefType() string { return c.underlying }
func (c *cursor) Access() frontend.Access       { return c.access }
func (c *cursor) IsStatic() bool                { return c.static }
func (c *cursor) File() string                  { return c.file }
func (c *cursor) RawComment() string            { return c.comment }
func (c *cursor) Children() []frontend.Cursor   { return c.children }
func (c *cursor) Tokens() []string              { return c.tokens }

func (c *cursor) DisplayName() string {
	if c.display != "" {
		return c.display
	}
	return c.spelling
}
