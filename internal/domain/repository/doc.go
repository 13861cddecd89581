// Package repository define los tipos y contratos de dominio del servicio.
//
// Las interfaces son independientes del almacenamiento; las implementaciones
// viven en internal/store/adapters/ (pg, memory).
//
//	┌─────────────────────────────────────────────┐
//	│        services/leads (orchestrator)        │
//	└─────────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌─────────────────────────────────────────────┐
//	│     domain/repository (interfaces)          │
//	│  AgentRepository, DistributionRepository    │
//	└─────────────────────────────────────────────┘
//	              │                │
//	              ▼                ▼
//	      adapters/pg       adapters/memory
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
