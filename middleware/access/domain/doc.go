// Package domain define contratos e tipos de domínio do pipeline de acesso
// (auditoria, rate limit, janela de horário e papéis).
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura.
package domain
