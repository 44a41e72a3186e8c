package accountstore

import "github.com/streamingfast/logging"

var zlog, tracer = logging.PackageLogger("accountstore", "github.com/streamingfast/accountstore-solana/accountstore")
