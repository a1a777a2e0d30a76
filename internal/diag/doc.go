// Package diag defines the diagnostic model shared by the generator stages
// and the hosts.
//
// Diagnostic is the central record: Severity, a stable Code (rendered as
// "FSnnn"), the message produced from the code's positional template and
// Args, a Primary span and optional Notes. Notes point at related places,
// e.g. the other members that share a settings key.
//
// Producers emit through a Reporter. BagReporter stores into a bounded Bag,
// Collector buffers the diagnostics of one group so that the driver can
// commit or drop them together. generator.go holds the constructors for the
// generator codes (FS001, FS002, FS099).
//
// Package diag does no formatting beyond the golden/short line form; the
// pretty and JSON renderers live in internal/diagfmt.
package diag
