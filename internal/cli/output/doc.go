// Package output renders RESP replies for respkv-cli.
//
// Formats:
//
//   - text: redis-cli style, e.g. "(integer) 1", "(nil)", numbered arrays
//   - json: the reply converted with resp.Value.Native
//   - yaml: same as json, encoded with gopkg.in/yaml.v3
//   - tree: one line per frame with its RESP type, used by "decode"
package output
