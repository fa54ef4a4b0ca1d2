/*
Package storage persists clip thumbnails and output variables in BoltDB.

The Store interface hides the database from the rest of the service; the only
implementation, BoltStore, keeps everything in a single file:

	<dataDir>/arenafeed.db
	├── thumbs      key: entity id ("clip:2:3")   value: PNG bytes
	└── variables   key: "current"             value: JSON object of name → value

Thumbnails are written by the feedback thumbnail loader after a successful
download and read back when a clip details value is computed. Variables are
saved when the manager stops and restored when it starts, so the last
selected clip, column and deck survive a restart.

# Usage

	store, err := storage.NewBoltStore("/var/lib/arenafeed")
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.PutThumb(types.ClipID(2, 3), png); err != nil {
		return err
	}
	data, err := store.GetThumb(types.ClipID(2, 3))
	if errors.Is(err, storage.ErrThumbNotFound) {
		// not cached yet
	}

Values returned by GetThumb are copied out of the transaction and stay valid
after it ends.

# Maintenance

The cache can be inspected and cleared offline:

	arenafeed thumbs list --data-dir /var/lib/arenafeed
	arenafeed thumbs purge --data-dir /var/lib/arenafeed --dry-run
*/
package storage
