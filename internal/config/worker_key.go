package config

type WorkerKeyStruct struct {
	PersistAttemptEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAttemptEventsQueue: "persist_attempt_events_queue",
}
