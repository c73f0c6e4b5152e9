// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ElementLoader and StagedSelection are the two stateful building blocks;
// AttributeFilterHandler composes them for one filter.
package services
