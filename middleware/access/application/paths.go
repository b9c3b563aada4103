package application

import "strings"

// PathSet é um conjunto de prefixos de caminho.
type PathSet []string

// Match informa se path começa com algum dos prefixos.
func (s PathSet) Match(path string) bool {
	for _, p := range s {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Exact informa se path é igual a algum dos elementos.
func (s PathSet) Exact(path string) bool {
	for _, p := range s {
		if path == p {
			return true
		}
	}
	return false
}

// Without devolve uma cópia sem os elementos de excluded.
func (s PathSet) Without(excluded PathSet) PathSet {
	out := make(PathSet, 0, len(s))
	for _, p := range s {
		if !excluded.Exact(p) {
			out = append(out, p)
		}
	}
	return out
}

func methodIn(method string, methods []string) bool {
	for _, m := range methods {
		if strings.EqualFold(method, m) {
			return true
		}
	}
	return false
}
