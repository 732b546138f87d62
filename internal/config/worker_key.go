package config

type WorkerKeyStruct struct {
	PersistPapersQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistPapersQueue: "persist_papers_queue",
}
