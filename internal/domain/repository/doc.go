// Package repository define las entidades del dominio y las interfaces de repositorio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente (PostgreSQL o memoria).
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│           Services / Controllers                    │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│  ProfileRepository, FeeRepository, PaymentRepo...   │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	              ┌─────────┴─────────┐
//	              ▼                   ▼
//	       ┌─────────────┐     ┌─────────────┐
//	       │  store/pg   │     │ store/memory│
//	       └─────────────┘     └─────────────┘
//
// Convenciones:
//   - ResidenceID es el límite de tenant y se pasa explícitamente
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
