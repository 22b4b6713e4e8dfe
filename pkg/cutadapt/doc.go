// Package cutadapt exposes adapter trimming and in-sequence demultiplexing
// as plugin actions backed by the external cutadapt tool.
//
// Nothing in this package matches sequences itself. Each operation turns its
// options into the tool's command line flags, invokes the tool once per
// sample (trimming) or once per sample batch (demultiplexing), and rebuilds
// the resulting files into artifact directories. Search semantics, error
// tolerance and quality trimming are whatever the tool documents at
// https://cutadapt.readthedocs.io.
package cutadapt
