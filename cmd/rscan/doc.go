// 15 Oct 2026

/*
Rscan shades a multiple alignment of DNA sequences to help find
signature sequences, stretches which are conserved within one group of
sequences and absent from the others.

The sequences are put into groups. At each position, each group in turn
is the ingroup and all the other groups together are the outgroup. For
every base in the ingroup,

	a is the fraction of the ingroup with the same base
	b is the fraction of the outgroup with the same base

and the score is

	1 - (ka*0.5)*(1-a) - (kb*0.1)*b

unless another formula is given. ka is the consensus coefficient and kb
the aspecificity tolerance coefficient. A score of 1 means the base is
in every member of the group and in nothing else.

The alignment is printed in pages, group by group, each base coloured
by the band its score falls in. The four borders of the five bands
default to 0.5, 0.7, 0.8 and 0.9.

Usage:

	rscan [flags] [input [output]]

The flags are:

	-g groups
		Groups of sequence indices, counting from 0. Groups are separated
		by spaces or ";", members by ",", ranges written 0..4 or 0-4.
		Without groups, every sequence is a group of its own.
	-a ka, -b kb
		Coefficients, both 20 by default.
	-c strict|high|low
		Set ka to 20, 10 or 3.
	-s forbid|penalty|allow
		Set kb to 20, 10 or 0.
	-f formula
		Scoring formula in a, b, ka and kb with + - * / and brackets.
	-r "n1 n2 n3 n4"
		Colour band borders.
	-w width, -l width
		Columns per page and characters for labels.
	-o file.csv
		Write the scores, one line per sequence, label first. A name
		ending in .tsv gives tab separated output.
	-p file.png
		Draw the pages into a picture.
	-i
		Start the interactive shell. Type man for its commands.
	-j n
		Score with n goroutines.
	-nocolor
		Plain text, even on a terminal. NO_COLOR in the environment
		does the same.
	-v n
		Verbosity, 0 to 3.
*/
package main
