package domain

import (
	"context"
	"time"
)

// StatsEvent representa o desfecho de uma requisição no pipeline.
//
// Gate é o nome do gate que encerrou a requisição, ou vazio quando ela seguiu
// adiante. Observação: cuidado com cardinalidade (salvar Key/Path sem controle
// pode explodir o número de séries/chaves em Redis/Prometheus).
type StatsEvent struct {
	Key     Key
	Gate    string
	Allowed bool
	Status  int

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do pipeline.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// O middleware trata erro como best-effort (não derruba request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
