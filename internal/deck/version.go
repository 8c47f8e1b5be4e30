package deck

// Version of the generator, printed by "trimatch -version".
// The preview server also uses it as the viewer's version: bumping it makes
// open viewers reload the WASM.
var Version = "v0.1.0"
