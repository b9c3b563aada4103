// Package access fornece o adapter HTTP (net/http) do pipeline de acesso da API de chat.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (auditoria, rate limit, horário, papéis, pipeline) sem net/http
//   - infra: implementações concretas (log de janela deslizante, arquivo de auditoria, estatísticas)
//   - access (este pacote): middleware HTTP + wiring/extração de chave e usuário + tradução para status/headers
//
// Fluxo no gateway:
//
//   1) Extrai a chave do cliente (XFF/IP) e o usuário autenticado
//   2) Audita a requisição (sempre, sem bloquear)
//   3) Consulta os gates na ordem: rate limit -> horário -> papéis
//   4) Se algum encerrar, responde 429 ou 403 com o motivo
//   5) Se todos deixarem seguir, chama o próximo handler (ex: reverse proxy) sem mexer na resposta
//
// O binário cmd/gateway lê a configuração de flags, arquivo YAML e variáveis de
// ambiente (RATE_WINDOW, RATE_MAX, HOURS_START, AUDIT_PATH, ...).
package access
