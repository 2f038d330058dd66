package dupescan

import (
	"sort"
	"sync"
)

// DigestBuckets groups candidate records by a digest key. Every bucket
// handed to a later stage holds at least two members; singletons are
// discarded as soon as a stage finishes.
type DigestBuckets map[string]map[string]*PathRecord

// RefineByQuicksum consumes the size index and regroups every materialized
// record by its partial digest. Records that never materialized had no size
// twin and are dropped; buckets left with a single member are dropped too,
// since a unique quicksum can have no byte-identical partner. Note the
// regrouping is global: two quicksum-equal files of different length can
// share a bucket here and are separated again by the fullsum stage.
func (s *Scanner) RefineByQuicksum(idx *SizeIndex) DigestBuckets {
	defer VerboseEnter()()

	buckets := make(DigestBuckets)
	for _, sizeBucket := range idx.buckets {
		for path, record := range sizeBucket {
			if record == nil {
				continue // unique size, never materialized
			}
			members := buckets[record.Quicksum]
			if members == nil {
				members = make(map[string]*PathRecord)
				buckets[record.Quicksum] = members
			}
			members[path] = record
		}
	}
	idx.buckets = nil // ownership moves to the refined buckets

	for digest, members := range buckets {
		if len(members) < 2 {
			delete(buckets, digest)
		}
	}

	VerboseLog(2, "quicksum stage: %d buckets survive", len(buckets))
	return buckets
}

// RefineByFullsum computes full digests for every quicksum survivor and
// regroups by complete content digest. This is the only stage that reads
// whole files. Hashing is fanned out across hash_workers goroutines with
// one task per quicksum bucket; regrouping happens on the collecting side
// so no bucket map is ever shared between goroutines. Unreadable files
// collapse to the algorithm's sentinel digest and therefore still group.
func (s *Scanner) RefineByFullsum(quickBuckets DigestBuckets, stats *ScanStats) []DuplicateGroup {
	defer VerboseEnter()()
	s.normalize()
	if stats == nil {
		stats = &ScanStats{}
	}

	tasks := make(chan map[string]*PathRecord, s.hashWorkers)
	results := make(chan []*PathRecord, s.hashWorkers)

	var wg sync.WaitGroup
	for i := 0; i < s.hashWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for members := range tasks {
				hashed := make([]*PathRecord, 0, len(members))
				for _, record := range members {
					fullsum, err := FullsumFile(record.Path, s.algorithm, s.hashBuffer)
					if err != nil {
						if IsDebugEnabled("digest") {
							VerboseLog(3, "fullsum failed for %s: %v", record.Path, err)
						}
						fullsum = s.algorithm.Sentinel()
					}
					record.Fullsum = fullsum
					hashed = append(hashed, record)
				}
				results <- hashed
			}
		}()
	}

	go func() {
		for _, members := range quickBuckets {
			tasks <- members
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	fullBuckets := make(DigestBuckets)
	for hashed := range results {
		for _, record := range hashed {
			stats.FullsumCandidates++
			members := fullBuckets[record.Fullsum]
			if members == nil {
				members = make(map[string]*PathRecord)
				fullBuckets[record.Fullsum] = members
			}
			members[record.Path] = record
		}
	}

	var groups []DuplicateGroup
	for digest, members := range fullBuckets {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, newDuplicateGroup(digest, members))
	}

	VerboseLog(2, "fullsum stage: %d duplicate groups", len(groups))
	return groups
}

// newDuplicateGroup finalizes one fullsum bucket into a presentable group
// with members ordered by ascending modification time, ties broken by path
func newDuplicateGroup(digest string, members map[string]*PathRecord) DuplicateGroup {
	group := DuplicateGroup{
		Fullsum: digest,
		Count:   len(members),
		Members: make([]GroupMember, 0, len(members)),
	}

	// The display size comes from the lexicographically first member so
	// sentinel groups, which may mix sizes, stay deterministic
	firstPath := ""
	for path, record := range members {
		if firstPath == "" || path < firstPath {
			firstPath = path
			group.Size = record.Size
		}
		group.Members = append(group.Members, GroupMember{
			Path:  record.Path,
			Inode: record.Inode,
			MTime: record.MTime,
		})
	}

	sort.Slice(group.Members, func(i, j int) bool {
		a, b := group.Members[i], group.Members[j]
		if !a.MTime.Equal(b.MTime) {
			return a.MTime.Before(b.MTime)
		}
		return a.Path < b.Path
	})

	return group
}
