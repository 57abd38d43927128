// Package doc defines the C4 architecture model for the Taskboard API, render
// it with "mdl serve github.com/taskboard/taskboard-api/internal/doc".
package doc

import (
	. "goa.design/model/dsl" //nolint:stylecheck
)

var _ = Design("Taskboard API", "Task tracking service", func() {
	Person("User", "Keeps track of tasks on the board", func() {
		Uses("Taskboard System", "Creates, lists, updates and deletes tasks", "HTTPS/JSON", Synchronous)
		Tag("person")
	})

	SoftwareSystem("Taskboard System", "Stores tasks and keeps the search index in sync", func() {
		URL("https://github.com/taskboard/taskboard-api")

		Container("REST Server", "Serves the task API", "Go", func() {
			Uses("PostgreSQL", "Reads from and writes to", "pgx", Synchronous)
			Uses("Elasticsearch", "Searches tasks in", "HTTP", Synchronous)
			Uses("Kafka", "Publishes task events to", "kafka protocol", Asynchronous)
			Tag("service")
		})

		Container("Elasticsearch Indexer", "Projects task events into the search index", "Go", func() {
			Uses("Kafka", "Consumes task events from", "kafka protocol", Asynchronous)
			Uses("Elasticsearch", "Indexes and deletes tasks in", "HTTP", Synchronous)
			Tag("service")
		})

		Container("PostgreSQL", "Stores the tasks", "PostgreSQL 14", func() {
			Tag("database")
		})

		Container("Elasticsearch", "Indexes tasks for searching", "Elasticsearch 7", func() {
			Tag("database")
		})

		Container("Kafka", "Carries task events", "Kafka", func() {
			Tag("broker")
		})
	})

	Views(func() {
		SystemContextView("Taskboard System", "Context", "System context diagram", func() {
			AddAll()
			AutoLayout(RankLeftRight)
		})

		ContainerView("Taskboard System", "Containers", "Container diagram", func() {
			AddAll()
			AutoLayout(RankTopBottom)
		})

		Styles(func() {
			ElementStyle("person", func() {
				Shape(ShapePerson)
			})
			ElementStyle("database", func() {
				Shape(ShapeCylinder)
			})
		})
	})
})
