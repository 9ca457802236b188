// Copyright 2022 CFC4N <cfc4n.cs@gmail.com>. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package domain

import "fmt"

// Partition is the Android image a library or executable ships in.
type Partition uint8

const (
	// PartitionSystem is the framework (system) image.
	PartitionSystem Partition = iota

	// PartitionVendor is the vendor image.
	PartitionVendor

	// NumPartitions is the number of known partitions.
	NumPartitions = 2
)

// String returns the partition name as it appears in library paths.
func (p Partition) String() string {
	switch p {
	case PartitionSystem:
		return "system"
	case PartitionVendor:
		return "vendor"
	default:
		return fmt.Sprintf("partition(%d)", uint8(p))
	}
}

// ParsePartition maps "system" or "vendor" to a Partition.
func ParsePartition(name string) (Partition, error) {
	switch name {
	case "system":
		return PartitionSystem, nil
	case "vendor":
		return PartitionVendor, nil
	default:
		return 0, fmt.Errorf("unknown partition %q", name)
	}
}
