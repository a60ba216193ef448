// Package run keeps the history of labyrinth searches.
//
// Every solve handled by the service layer is recorded as a service.Run
// with a UUID identifier. The Manager holds runs in memory and, when built
// with NewManagerWithPersistence, writes each one to a RunPersistence.
// FilePersistence stores one JSON document per run.
//
// Usage:
//
//	persistence, err := run.NewFilePersistence("runs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := run.NewManagerWithPersistence(persistence)
//	if _, err := manager.LoadPersisted(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	recorded, err := manager.Create(&service.Run{ConfigID: "classic"})
//	again, err := manager.Get(recorded.ID)
//
// CleanupExpired evicts old runs from memory only; persisted runs are
// reloaded on demand.
package run
