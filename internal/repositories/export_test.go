package repositories

// Rebind expõe rebind para os testes externos
func Rebind(r *Repository, q string) string { return r.rebind(q) }
