// Package config loads the rolo client's TOML configuration.
//
// The file lives at ~/.config/rolo/config.toml unless a path is given. A
// missing file is not an error; every key is optional and empty values take
// their defaults:
//
//	api_url          = "http://127.0.0.1:5000"
//	favorites_path   = "~/.local/share/rolo/favorites.json"
//	log_file         = "~/.local/state/rolo/rolo.log"
//	log_level        = "info"   # debug, info, warn, error
//	log_format       = "text"   # text or json
//	request_timeout  = "5s"
//	refresh_interval = "0s"     # 0 disables background refresh
//
// Paths starting with ~ are expanded against $HOME. Invalid TOML and
// unparseable durations are reported as "parse config" errors.
package config
