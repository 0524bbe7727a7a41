package correlator

// Version is the single project version, reported by the CLI and embedded
// in the OpenLineage producer URI.
const Version = "0.1.0"

// producerURI identifies this emitter in every event and facet it produces.
const producerURI = "https://github.com/correlator-io/correlator-go/tree/" + Version
