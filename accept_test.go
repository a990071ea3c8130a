package ghostline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccept(t *testing.T) {
	testCases := []struct {
		doc       Document
		candidate string
		expected  Document
	}{
		{
			doc:       Document{"Patient has fev", 15},
			candidate: "feverish chills",
			expected:  Document{"Patient has feverish chills", 27},
		},
		{
			doc:       Document{"line one\nfev", 12},
			candidate: "fever",
			expected:  Document{"line one\nfever", 14},
		},
		{
			// The whole line is replaced even with the cursor mid-line, leaving the
			// cursor at the end of the accepted line.
			doc:       Document{"line one\nfev\nthree", 10},
			candidate: "fever",
			expected:  Document{"line one\nfever\nthree", 14},
		},
		{
			doc:       Document{"température", 11},
			candidate: "température élevée",
			expected:  Document{"température élevée", 18},
		},
	}
	for _, c := range testCases {
		t.Run(c.candidate, func(t *testing.T) {
			require.Equal(t, c.expected, Accept(c.doc, c.doc.Line(), c.candidate))
		})
	}
}

func TestInsertNewline(t *testing.T) {
	require.Equal(t, Document{"Patient has fev\n", 16}, InsertNewline(Document{"Patient has fev", 15}))
	require.Equal(t, Document{"ab\nc", 3}, InsertNewline(Document{"abc", 2}))
}

func TestDocument(t *testing.T) {
	d := newDocument("abc", 10)
	require.Equal(t, 3, d.Cursor)
	require.Equal(t, 0, newDocument("abc", -2).Cursor)

	d = d.Insert("dé")
	require.Equal(t, Document{"abcdé", 5}, d)
	require.Equal(t, Document{"abc", 3}, d.EraseTo(3))
	require.Equal(t, Document{"cdé", 0}, d.MoveTo(2).EraseTo(0))
	require.Equal(t, Document{"abcdé", 0}, d.MoveTo(-1))
	require.Equal(t, 5, d.Len())
}
