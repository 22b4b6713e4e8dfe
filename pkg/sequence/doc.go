// Package sequence implements the artifact directory formats shuttled between
// the workflow host and the trimming tool.
//
// Two layouts exist. Per-sample directories hold one Casava-named fastq.gz
// per sample and direction plus a MANIFEST telling which file belongs to
// which sample. Multiplexed directories hold a single forward.fastq.gz (and
// reverse.fastq.gz for paired reads) with the barcodes still embedded in the
// sequences.
//
// All gzip handling goes through klauspost/pgzip so large read files
// compress and decompress on all cores.
package sequence
