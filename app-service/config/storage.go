package config

import "github.com/rellab/rellab-server/storage-go"

// Disks holds the two blob stores: Private for files served through
// handlers, Public for files linked directly by URL.
type Disks struct {
	Private *storage.Disk
	Public  *storage.Disk
}

func ProvideDisks(config *Config) (*Disks, error) {
	private, err := storage.NewDisk(config.Storage.Root, "")
	if err != nil {
		return nil, err
	}

	public, err := storage.NewDisk(config.Storage.PublicRoot, config.Storage.PublicUrl)
	if err != nil {
		return nil, err
	}

	return &Disks{Private: private, Public: public}, nil
}
