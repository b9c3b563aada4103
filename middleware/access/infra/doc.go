// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - SlidingLog: log de timestamps por chave (janela deslizante) com poda e varredura
//   - FileAuditSink: arquivo append-only para a trilha de auditoria
//   - MemoryStatsStore / RedisStatsStore / PrometheusStatsStore: estatísticas das decisões
package infra
