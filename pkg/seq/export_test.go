package seq

var SetFastaRdSize = setFastaRdSize

// RdSize lets tests put the buffer size back.
func RdSize() int { return rdsize }

// SeqBytes and Cmmt give tests the raw sequence and comment.
func (seqgrp *SeqGrp) SeqBytes(i int) []byte { return seqgrp.seqs[i].seq }
func (seqgrp *SeqGrp) Cmmt(i int) string     { return seqgrp.seqs[i].cmmt }
