// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import "log/slog"

// Operator traces go through a package logger so a driver can route them.
// The default discards nothing but logs at the default handler's level;
// operator-internal chatter is all Debug.
var logger = slog.Default()

// SetLogger replaces the package logger. Pass slog.New against a handler with
// LevelDebug to see per-edit traces.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
