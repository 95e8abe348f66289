package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"metatag-auditor/internal/models"
)

// render vira "1 … 3 [4] 5" para facilitar a leitura dos casos
func render(p models.Pagination) []string {
	out := []string{}
	for _, l := range p.Links {
		switch {
		case l.Ellipsis:
			out = append(out, "…")
		case l.Current:
			out = append(out, "["+itoaInt(l.Page)+"]")
		default:
			out = append(out, itoaInt(l.Page))
		}
	}
	return out
}

func itoaInt(n int) string {
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []string
	}{
		{"uma pagina", 1, 1, []string{}},
		{"inicio", 1, 10, []string{"[01]", "02", "03", "…", "10"}},
		{"meio", 5, 10, []string{"01", "…", "03", "04", "[05]", "06", "07", "…", "10"}},
		{"perto do inicio", 4, 10, []string{"01", "02", "03", "[04]", "05", "06", "…", "10"}},
		{"fim", 10, 10, []string{"01", "…", "08", "09", "[10]"}},
		{"poucas", 2, 3, []string{"01", "[02]", "03"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(BuildPagination(tt.current, tt.total, PageRange)))
		})
	}
}

func TestBuildPagination_PrevNext(t *testing.T) {
	p := BuildPagination(1, 3, PageRange)
	assert.Zero(t, p.Prev)
	assert.Equal(t, 2, p.Next)

	p = BuildPagination(3, 3, PageRange)
	assert.Equal(t, 2, p.Prev)
	assert.Zero(t, p.Next)
}
