// Package notify contains pre-warning notifiers: a log line, a desktop
// notification, a JSON webhook and a fan-out over several of them.
package notify
