// Package application contém os casos de uso do pipeline de acesso: auditoria,
// rate limit de escrita, janela de horário e checagem de papéis.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Pipeline.Evaluate(req) audita a requisição e devolve a primeira
// Decision que encerra, ou Continue.
package application
