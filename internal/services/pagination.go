package services

import "metatag-auditor/internal/models"

// PageRange é quantas páginas mostramos de cada lado da atual
const PageRange = 2

// BuildPagination monta a janela deslizante: primeira, última, atual±rng e "..." nos buracos
func BuildPagination(current, total, rng int) models.Pagination {
	p := models.Pagination{Current: current, Total: total, Links: []models.PageLink{}}
	if total <= 1 {
		return p
	}
	if current > 1 {
		p.Prev = current - 1
	}
	if current < total {
		p.Next = current + 1
	}

	for i := 1; i <= total; i++ {
		switch {
		case i == 1 || i == total || (i >= current-rng && i <= current+rng):
			p.Links = append(p.Links, models.PageLink{Page: i, Current: i == current})
		case i == 2 && i < current-rng:
			p.Links = append(p.Links, models.PageLink{Ellipsis: true})
		case i == total-1 && i > current+rng:
			p.Links = append(p.Links, models.PageLink{Ellipsis: true})
		}
	}
	return p
}
