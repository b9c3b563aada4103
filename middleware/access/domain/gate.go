package domain

import "time"

// Gate é um estágio do pipeline que pode deixar a requisição seguir ou encerrá-la.
//
// Implementações devem ser seguras para uso concorrente: o mesmo Gate atende
// todas as requisições do processo.
type Gate interface {
	Name() string
	Check(req Request, now time.Time) Decision
}

// TimestampLog guarda, por chave, os instantes das requisições aceitas
// (do mais antigo para o mais novo).
//
// Admit faz poda + contagem + registro como uma única operação atômica:
// retorna quantas entradas restaram dentro da janela e se a requisição foi
// registrada.
type TimestampLog interface {
	Admit(key Key, now time.Time) (count int, admitted bool)
}

// AuditSink recebe uma linha por requisição. Erros são tratados como
// best-effort pelo chamador.
type AuditSink interface {
	Append(line string) error
}
