// Copyright 2026 The typelens Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package libsig

import (
	"golang.org/x/mod/semver"
	xerrors "golang.org/x/xerrors"
)

// Store is a bundled library-signature store as decoded by the
// collaborator that parses its on-disk format (§1, §4.4): a stamped
// version plus the decoded records themselves.
type Store struct {
	// Version is the store's own semver-formatted build tag, e.g. "v3.2.0".
	Version string
	Records []Record
}

// LoadStore validates store's version against minVersion (SPEC_FULL.md
// §3.3) and, if compatible, loads its records into r. minVersion may be
// empty, in which case no compatibility check is performed.
func (r *Registry) LoadStore(store Store, minVersion string) error {
	if minVersion != "" {
		if !semver.IsValid(store.Version) {
			return xerrors.Errorf("library-signature store: invalid version %q: %w", store.Version, errInvalidVersion)
		}
		if !semver.IsValid(minVersion) {
			return xerrors.Errorf("library-signature store: invalid minimum version %q: %w", minVersion, errInvalidVersion)
		}
		if semver.Compare(store.Version, minVersion) < 0 {
			return xerrors.Errorf("library-signature store %s is older than required minimum %s: %w", store.Version, minVersion, errIncompatibleStore)
		}
	}
	r.Load(store.Records)
	return nil
}

var errInvalidVersion = xerrors.New("not a valid semantic version")
var errIncompatibleStore = xerrors.New("incompatible library-signature store")
