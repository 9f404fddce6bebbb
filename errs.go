// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate

import "github.com/tidalforge/flowgate/internal/core"

// ErrAlreadyFinished is returned by [Writer.Yield] once the writer or the
// sink has finished, and observed by any producer whose suspended yield is
// resolved by a sink finish that supplied no error of its own. A writer
// finish resumes suspended producers with nil. Compare
// against it with errors.Is.
const ErrAlreadyFinished = core.ErrAlreadyFinished
