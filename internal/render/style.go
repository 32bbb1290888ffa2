package render

// Palette colors sequence spans by region type.
const Palette = `      .illumina_p5 {color:#08519c;}
      .illumina_p7 {color:#a50f15;}
      .nextera_read1 {color:#bcbddc;}
      .nextera_read2 {color:#9ebcda;}
      .truseq_read1 {color:#4a1486;}
      .truseq_read2 {color:#6a51a3;}
      .ME1, .ME2 {color:#969696;}
      .s5 {color:#6baed6;}
      .s7 {color:#fc9272;}
      .index5, .index7 {color:#31a354;}
      .barcode {color:#f768a1;}
      .umi {color:#807dba;}
      .linker {color:#bdbdbd;}
      .gdna {color:#f03b20;}
      .cdna {color:#7e331f;}
      .poly_A, .poly_T {color:#636363;}
`
