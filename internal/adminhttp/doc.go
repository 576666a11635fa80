// Package adminhttp exposes a small JSON HTTP surface over a
// passivation.Manager for operational tooling: inspecting which
// entities a shard currently has Active, and hosting or unhosting a
// shard on this node.
package adminhttp
