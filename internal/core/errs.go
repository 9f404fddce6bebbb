// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package core

import "github.com/tidalforge/flowgate/internal/cerr"

// ErrAlreadyFinished is returned by Yield once the writer or the sink has
// finished. The root package re-exports this value so callers can compare
// against it with errors.Is without reaching into an internal package.
const ErrAlreadyFinished = cerr.Error("flowgate: already finished")
