// Package reshopcore implements ReSHOP's EMPDAG and CCF/OVF reformulation
// engine: a typed graph of Mathematical Programs and Nash-equilibrium nodes,
// a static analyzer over that graph, a catalog of closed convex function
// templates, and the three reformulator families (Equilibrium, Fenchel,
// Conjugate) that rewrite an OVF occurrence into standard optimization MPs.
//
// The module is organized as one focused package per subsystem:
//
//	rhperr/            closed error-kind enumeration and diagnostics aggregator
//	identity/          typed variable/equation/MP/Nash indices and node UIDs
//	container/         the ContainerFacade contract plus an in-memory implementation
//	empdag/            EmpDag, MathPrgm, Nash node, ArcVF
//	empdag/analyzer/   cycle detection, topological order, LCA, saddle-path detection
//	numlinalg/         small dense-matrix and Cholesky helpers
//	ovf/               the OVF template catalog and its lookup library
//	reform/            Equilibrium / Fenchel / Conjugate reformulators
//	orchestrator/      the process pipeline that ties every subsystem together
//
// There is no cmd/ driver: the CLI benchmark drivers, GAMS bridge, and GUI IPC
// pipe of the system this module models are external collaborators, out of
// scope for the core itself.
package reshopcore
